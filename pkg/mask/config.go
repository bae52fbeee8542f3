package mask

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Rule kinds accepted in RuleConfig.Kind.
const (
	KindBrightnessBelow   = "brightness_below"
	KindNearGrayscaleDark = "near_grayscale_dark"
	KindLowAlpha          = "low_alpha"
	KindNotNeonDark       = "not_neon_dark"
	KindBorderMargin      = "border_margin"
	KindOffHue            = "off_hue"
	KindNearWhite         = "near_white"
)

// ErrUnknownRule is returned when a RuleConfig names a kind that does not
// exist.
var ErrUnknownRule = errors.New("unknown rule kind")

// ConfigError describes an invalid threshold in a rule configuration.
type ConfigError struct {
	Kind  string
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule %s: %s %s", e.Kind, e.Field, e.Msg)
}

// RuleConfig is the serializable form of a Rule. Only the fields relevant
// to Kind are read.
type RuleConfig struct {
	Kind       string   `json:"kind"`
	Threshold  float64  `json:"threshold,omitempty"`
	ColorDelta int      `json:"color_delta,omitempty"`
	Max        Ceiling  `json:"max,omitzero"`
	Margin     int      `json:"margin,omitempty"`
	Neon       NeonTest `json:"neon,omitzero"`
	RedFloor   int      `json:"red_floor,omitempty"`
	Delta      int      `json:"delta,omitempty"`
}

// UnmarshalJSON decodes a rule strictly. Unknown keys, keys that belong to
// another kind and missing required keys are errors. Unknown kinds decode
// and are reported by Validate.
func (c *RuleConfig) UnmarshalJSON(data []byte) error {
	type plain RuleConfig
	var p plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*c = RuleConfig(p)
	kind, ok := LookupKind(c.Kind)
	if !ok {
		return nil
	}
	return kind.checkKeys(keys)
}

// Pass is one named application of a rule set over a whole image. With Crop
// set the image is cropped to its content before the rules run; a pass may
// consist of the crop alone.
type Pass struct {
	Name  string       `json:"name"`
	Crop  bool         `json:"crop,omitempty"`
	Rules []RuleConfig `json:"rules,omitempty"`
}

// String renders the config the way it is written on the command line help,
// e.g. "brightness_below(45)".
func (c RuleConfig) String() string {
	switch c.Kind {
	case KindBrightnessBelow, KindLowAlpha, KindNearWhite:
		return fmt.Sprintf("%s(%g)", c.Kind, c.Threshold)
	case KindNearGrayscaleDark:
		var args []string
		if c.Threshold > 0 {
			args = append(args, fmt.Sprintf("%g", c.Threshold))
		}
		if c.Max != (Ceiling{}) {
			args = append(args, "max="+c.Max.String())
		}
		return fmt.Sprintf("%s(delta=%d, %s)", c.Kind, c.ColorDelta, strings.Join(args, ", "))
	case KindNotNeonDark:
		return fmt.Sprintf("%s(neon=%s, %g)", c.Kind, c.Neon, c.Threshold)
	case KindBorderMargin:
		if c.Threshold <= 0 {
			return fmt.Sprintf("%s(%dpx)", c.Kind, c.Margin)
		}
		return fmt.Sprintf("%s(%dpx, %g)", c.Kind, c.Margin, c.Threshold)
	case KindOffHue:
		return fmt.Sprintf("%s(r>%d, delta=%d)", c.Kind, c.RedFloor, c.Delta)
	default:
		return c.Kind
	}
}

func (n NeonTest) String() string {
	var parts []string
	if n.R > 0 {
		parts = append(parts, fmt.Sprintf("r>%d", n.R))
	}
	if n.G > 0 {
		parts = append(parts, fmt.Sprintf("g>%d", n.G))
	}
	if n.B > 0 {
		parts = append(parts, fmt.Sprintf("b>%d", n.B))
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, "&")
}

func (c Ceiling) String() string {
	var parts []string
	if c.R > 0 {
		parts = append(parts, fmt.Sprintf("r<%d", c.R))
	}
	if c.G > 0 {
		parts = append(parts, fmt.Sprintf("g<%d", c.G))
	}
	if c.B > 0 {
		parts = append(parts, fmt.Sprintf("b<%d", c.B))
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, "&")
}

// Validate checks that the thresholds make sense for the kind. Required
// fields must be non-zero, so a rule never degrades into a silent no-op.
func (c RuleConfig) Validate() error {
	switch c.Kind {
	case KindBrightnessBelow:
		return checkPositive(c.Kind, "threshold", c.Threshold, 256)
	case KindNearGrayscaleDark:
		if err := checkRange(c.Kind, "color_delta", float64(c.ColorDelta), 1, 256); err != nil {
			return err
		}
		if err := checkRange(c.Kind, "threshold", c.Threshold, 0, 256); err != nil {
			return err
		}
		for _, f := range []struct {
			name string
			v    int
		}{{"max.r", c.Max.R}, {"max.g", c.Max.G}, {"max.b", c.Max.B}} {
			if err := checkRange(c.Kind, f.name, float64(f.v), 0, 256); err != nil {
				return err
			}
		}
		if c.Threshold == 0 && c.Max == (Ceiling{}) {
			return &ConfigError{Kind: c.Kind, Field: "threshold", Msg: "or max is required"}
		}
		return nil
	case KindLowAlpha:
		if err := checkPositive(c.Kind, "threshold", c.Threshold, 256); err != nil {
			return err
		}
		return checkInteger(c.Kind, "threshold", c.Threshold)
	case KindNotNeonDark:
		if c.Neon == (NeonTest{}) {
			return &ConfigError{Kind: c.Kind, Field: "neon", Msg: "needs at least one channel floor"}
		}
		for _, f := range []struct {
			name string
			v    int
		}{{"neon.r", c.Neon.R}, {"neon.g", c.Neon.G}, {"neon.b", c.Neon.B}} {
			if err := checkRange(c.Kind, f.name, float64(f.v), 0, 255); err != nil {
				return err
			}
		}
		return checkPositive(c.Kind, "threshold", c.Threshold, 256)
	case KindBorderMargin:
		if c.Margin <= 0 {
			return &ConfigError{Kind: c.Kind, Field: "margin", Msg: "must be positive"}
		}
		return checkRange(c.Kind, "threshold", c.Threshold, 0, 256)
	case KindOffHue:
		if err := checkRange(c.Kind, "red_floor", float64(c.RedFloor), 0, 255); err != nil {
			return err
		}
		return checkRange(c.Kind, "delta", float64(c.Delta), 0, 255)
	case KindNearWhite:
		if err := checkPositive(c.Kind, "threshold", c.Threshold, 255); err != nil {
			return err
		}
		return checkInteger(c.Kind, "threshold", c.Threshold)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRule, c.Kind)
	}
}

func checkRange(kind, field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return &ConfigError{Kind: kind, Field: field, Msg: fmt.Sprintf("%g out of range [%g, %g]", v, lo, hi)}
	}
	return nil
}

func checkPositive(kind, field string, v, hi float64) error {
	if v <= 0 {
		return &ConfigError{Kind: kind, Field: field, Msg: "is required and must be positive"}
	}
	return checkRange(kind, field, v, 0, hi)
}

// Alpha and per-channel thresholds compare against whole bytes.
func checkInteger(kind, field string, v float64) error {
	if v != math.Trunc(v) {
		return &ConfigError{Kind: kind, Field: field, Msg: fmt.Sprintf("%g must be an integer", v)}
	}
	return nil
}

// checkKeys rejects JSON keys outside the kind's fields and required fields
// that are absent.
func (k KindSpec) checkKeys(keys map[string]json.RawMessage) error {
	names := make([]string, 0, len(keys))
	for n := range keys {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if n != "kind" && !k.hasField(n) {
			return &ConfigError{Kind: k.Name, Field: n, Msg: "is not a field of this kind"}
		}
	}
	for _, f := range k.Fields {
		if _, ok := keys[f.Name]; f.Required && !ok {
			return &ConfigError{Kind: k.Name, Field: f.Name, Msg: "is required"}
		}
	}
	return nil
}

// Compile validates c and returns the Rule it describes.
func (c RuleConfig) Compile() (Rule, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Kind {
	case KindBrightnessBelow:
		return BrightnessBelow{Threshold: c.Threshold}, nil
	case KindNearGrayscaleDark:
		return NearGrayscaleDark{ColorDelta: c.ColorDelta, Threshold: c.Threshold, Max: c.Max}, nil
	case KindLowAlpha:
		return LowAlpha{Threshold: int(c.Threshold)}, nil
	case KindNotNeonDark:
		return NotNeonDark{Neon: c.Neon, Threshold: c.Threshold}, nil
	case KindBorderMargin:
		return BorderMargin{Margin: c.Margin, Threshold: c.Threshold}, nil
	case KindOffHue:
		return OffHue{RedFloor: c.RedFloor, Delta: c.Delta}, nil
	case KindNearWhite:
		return NearWhite{Threshold: int(c.Threshold)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRule, c.Kind)
}

// Compile builds a Classifier from every rule of the pass.
func (p Pass) Compile() (*Classifier, error) {
	rules := make([]Rule, 0, len(p.Rules))
	for i, rc := range p.Rules {
		r, err := rc.Compile()
		if err != nil {
			return nil, fmt.Errorf("pass %q rule %d: %w", p.Name, i, err)
		}
		rules = append(rules, r)
	}
	return New(rules...), nil
}
