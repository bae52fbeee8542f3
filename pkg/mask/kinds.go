// Registry of rule kinds.
//
// Must list the same kinds RuleConfig.Compile accepts.

package mask

// FieldSpec describes one threshold field of a rule kind. A JSON rule may
// only carry the fields of its kind, and Required fields must be present.
type FieldSpec struct {
	Name        string // JSON field name
	Type        string // "float", "int", "neon", "ceiling"
	Required    bool
	Description string
}

// KindSpec documents a single rule kind.
type KindSpec struct {
	Name        string
	Fields      []FieldSpec
	Usage       string
	Description string
}

// Kinds is the list of rule kinds understood by RuleConfig.
var Kinds = []KindSpec{
	{
		Name:        KindBrightnessBelow,
		Fields:      []FieldSpec{{"threshold", "float", true, "mean brightness ceiling"}},
		Usage:       "brightness_below(threshold)",
		Description: "Erase if mean(r,g,b) < threshold.",
	},
	{
		Name: KindNearGrayscaleDark,
		Fields: []FieldSpec{
			{"color_delta", "int", true, "max |r-g| and |g-b|"},
			{"threshold", "float", false, "mean brightness ceiling"},
			{"max", "ceiling", false, "per-channel ceilings {r,g,b}; 0 disables a channel"},
		},
		Usage:       "near_grayscale_dark(color_delta, threshold and/or max)",
		Description: "Erase nearly neutral dark pixels (muddy background box).",
	},
	{
		Name:        KindLowAlpha,
		Fields:      []FieldSpec{{"threshold", "int", true, "alpha floor"}},
		Usage:       "low_alpha(threshold)",
		Description: "Erase if alpha < threshold (ghosting left by earlier passes).",
	},
	{
		Name: KindNotNeonDark,
		Fields: []FieldSpec{
			{"neon", "neon", true, "channel floors {r,g,b}; 0 disables a channel"},
			{"threshold", "float", true, "mean brightness ceiling"},
		},
		Usage:       "not_neon_dark(neon, threshold)",
		Description: "Erase dark pixels that do not look like the glow color.",
	},
	{
		Name: KindBorderMargin,
		Fields: []FieldSpec{
			{"margin", "int", true, "band width in pixels"},
			{"threshold", "float", false, "mean brightness ceiling; omit to clear the band"},
		},
		Usage:       "border_margin(margin[, threshold])",
		Description: "Erase pixels near the image edges.",
	},
	{
		Name: KindOffHue,
		Fields: []FieldSpec{
			{"red_floor", "int", false, "red must exceed this (default 0)"},
			{"delta", "int", false, "min |r-g| and |r-b| (default 0)"},
		},
		Usage:       "off_hue(red_floor, delta)",
		Description: "Erase red/yellow dominated noise while keeping a white core.",
	},
	{
		Name:        KindNearWhite,
		Fields:      []FieldSpec{{"threshold", "int", true, "per-channel floor"}},
		Usage:       "near_white(threshold)",
		Description: "Erase if r, g and b are all above threshold (white background).",
	},
}

func (k KindSpec) hasField(name string) bool {
	for _, f := range k.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// LookupKind returns the KindSpec named name.
func LookupKind(name string) (KindSpec, bool) {
	for _, k := range Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return KindSpec{}, false
}
