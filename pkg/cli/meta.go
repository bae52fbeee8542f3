package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Fepozopo/logostrip/pkg/mask"
	"github.com/Fepozopo/logostrip/pkg/preset"
)

// KindHelp produces a help entry for a rule kind from its registry entry.
func KindHelp(k mask.KindSpec) string {
	var sb strings.Builder
	sb.WriteString(k.Usage)
	if k.Description != "" {
		sb.WriteString(" - " + k.Description)
	}
	for _, f := range k.Fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		sb.WriteString(fmt.Sprintf("\n    %s (%s, %s)", f.Name, f.Type, req))
		if f.Description != "" {
			sb.WriteString(": " + f.Description)
		}
	}
	return sb.String()
}

// PresetHelp summarizes a preset on one header line followed by its passes.
func PresetHelp(p preset.Preset) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s [%s]", p.Name, p.Source))
	if p.Description != "" {
		sb.WriteString(" - " + p.Description)
	}
	for _, pass := range p.Passes {
		if pass.Crop {
			sb.WriteString("\n    crop to content")
		}
		if len(pass.Rules) == 0 {
			continue
		}
		rules := make([]string, len(pass.Rules))
		for i, r := range pass.Rules {
			rules[i] = r.String()
		}
		name := pass.Name
		if name == "" {
			name = "pass"
		}
		sb.WriteString(fmt.Sprintf("\n    %s: %s", name, strings.Join(rules, " OR ")))
	}
	if p.Crop.Enabled {
		if p.Crop.Pad > 0 {
			sb.WriteString(fmt.Sprintf("\n    crop to content, pad %dpx", p.Crop.Pad))
		} else {
			sb.WriteString("\n    crop to content")
		}
	}
	return sb.String()
}

func printList(w io.Writer, set preset.Set) {
	fmt.Fprintln(w, "Presets:")
	for _, name := range set.Names() {
		marker := " "
		if name == preset.DefaultName {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, PresetHelp(set[name]))
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Rule kinds:")
	for _, k := range mask.Kinds {
		fmt.Fprintf(w, "  %s\n", KindHelp(k))
	}
}
