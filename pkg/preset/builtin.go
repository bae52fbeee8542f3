package preset

import "github.com/Fepozopo/logostrip/pkg/mask"

// Passes shared between the single-step presets and the full chains.
var (
	passDarkBox = mask.Pass{
		Name:  "dark-box",
		Rules: []mask.RuleConfig{{Kind: mask.KindBrightnessBelow, Threshold: 60}},
	}
	passWhiteBG = mask.Pass{
		Name:  "white-bg",
		Rules: []mask.RuleConfig{{Kind: mask.KindNearWhite, Threshold: 240}},
	}
	passMuddy = mask.Pass{
		Name: "muddy-box",
		Rules: []mask.RuleConfig{
			{Kind: mask.KindBrightnessBelow, Threshold: 45},
			{Kind: mask.KindNearGrayscaleDark, ColorDelta: 15, Max: mask.Ceiling{R: 40, G: 50, B: 50}},
		},
	}
	passGhosting = mask.Pass{
		Name:  "ghosting",
		Rules: []mask.RuleConfig{{Kind: mask.KindLowAlpha, Threshold: 30}},
	}
	passEdgeClear = mask.Pass{
		Name:  "edge-clear",
		Rules: []mask.RuleConfig{{Kind: mask.KindBorderMargin, Margin: 15}},
	}
	passNeonKeep = mask.Pass{
		Name: "neon-keep",
		Rules: []mask.RuleConfig{
			{Kind: mask.KindNotNeonDark, Neon: mask.NeonTest{G: 150, B: 150}, Threshold: 100},
			{Kind: mask.KindNearGrayscaleDark, ColorDelta: 20, Threshold: 60},
		},
	}
	passDimBorder = mask.Pass{
		Name:  "dim-border",
		Rules: []mask.RuleConfig{{Kind: mask.KindBorderMargin, Margin: 5, Threshold: 150}},
	}
	passPurge = mask.Pass{
		Name: "purge",
		Rules: []mask.RuleConfig{
			{Kind: mask.KindLowAlpha, Threshold: 50},
			{Kind: mask.KindBrightnessBelow, Threshold: 85},
			{Kind: mask.KindOffHue, RedFloor: 100, Delta: 30},
		},
	}
)

// Builtin returns the presets shipped with the binary. Every historical
// clean-up step is available on its own, and the "-full" presets chain them
// from a raw export in one run. The returned Set is a fresh copy.
func Builtin() Set {
	list := []Preset{
		{
			Name:        "dark",
			Description: "drop the dark gray square behind the neon logo",
			Source:      SourceRaw,
			Passes:      []mask.Pass{passDarkBox},
		},
		{
			Name:        "light",
			Description: "drop the white background of the light logo",
			Source:      SourceRaw,
			Passes:      []mask.Pass{passWhiteBG},
		},
		{
			Name:        "aggressive",
			Description: "remove the muddy teal box and near-transparent ghosting",
			Source:      SourceProcessed,
			Passes:      []mask.Pass{passMuddy, passGhosting},
		},
		{
			Name:        "edges",
			Description: "clear a 15px band around the edges",
			Source:      SourceProcessed,
			Passes:      []mask.Pass{passEdgeClear},
		},
		{
			Name:        "crop",
			Description: "crop to content only",
			Source:      SourceProcessed,
			Crop:        Crop{Enabled: true},
		},
		{
			Name:        "final",
			Description: "keep cyan neon, drop dark leftovers and a dim 5px border, crop",
			Source:      SourceProcessed,
			Passes:      []mask.Pass{passNeonKeep, passDimBorder},
			Crop:        Crop{Enabled: true},
		},
		{
			Name:        "purge",
			Description: "drop ghosting, dark and red/yellow noise, crop with a 2px pad",
			Source:      SourceProcessed,
			Passes:      []mask.Pass{passPurge},
			Crop:        Crop{Enabled: true, Pad: 2},
		},
		{
			Name:        "neon-full",
			Description: "every dark-logo step from a raw export, cropping where each step did",
			Source:      SourceRaw,
			Passes: []mask.Pass{
				passDarkBox, passMuddy, passGhosting, passEdgeClear,
				afterCrop(passNeonKeep), passDimBorder,
				afterCrop(passPurge),
			},
			Crop: Crop{Enabled: true, Pad: 2},
		},
		{
			Name:        "light-full",
			Description: "white background, ghosting and edge clean-up from a raw export",
			Source:      SourceRaw,
			Passes:      []mask.Pass{passWhiteBG, passGhosting, passEdgeClear},
			Crop:        Crop{Enabled: true, Pad: 2},
		},
	}
	set := make(Set, len(list))
	for _, p := range list {
		p.Passes = clonePasses(p.Passes)
		set[p.Name] = p
	}
	return set
}

// DefaultName is the preset used when none is given on the command line.
const DefaultName = "neon-full"

func clonePasses(in []mask.Pass) []mask.Pass {
	if in == nil {
		return nil
	}
	out := make([]mask.Pass, len(in))
	for i, p := range in {
		out[i] = mask.Pass{Name: p.Name, Crop: p.Crop, Rules: append([]mask.RuleConfig(nil), p.Rules...)}
	}
	return out
}

// afterCrop returns p with a crop to content in front of its rules.
func afterCrop(p mask.Pass) mask.Pass {
	p.Crop = true
	return p
}
