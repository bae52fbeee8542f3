// Package preset holds named rule configurations. Each preset is a complete
// recipe: which passes to run, what state the input is expected to be in,
// and how to crop the result.
package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/Fepozopo/logostrip/pkg/mask"
)

// Source declares what a preset expects to be fed.
type Source string

const (
	// SourceRaw is an untouched export straight from the design tool.
	SourceRaw Source = "raw"
	// SourceProcessed is the output of an earlier preset.
	SourceProcessed Source = "processed"
)

// Crop controls the bounding-box step after the passes. Passes can crop
// earlier on their own with mask.Pass.Crop.
type Crop struct {
	Enabled bool `json:"enabled"`
	Pad     int  `json:"pad,omitempty"`
}

// Preset is a named, ordered list of passes plus crop settings.
type Preset struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Source      Source      `json:"source"`
	Passes      []mask.Pass `json:"passes"`
	Crop        Crop        `json:"crop"`
}

// ErrNotFound is returned by Set.Get for unknown preset names.
var ErrNotFound = errors.New("preset not found")

// Validate normalizes defaults and checks every rule.
func (p *Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset without name")
	}
	switch p.Source {
	case "":
		p.Source = SourceRaw
	case SourceRaw, SourceProcessed:
	default:
		return fmt.Errorf("preset %s: invalid source %q (want %q or %q)", p.Name, p.Source, SourceRaw, SourceProcessed)
	}
	if p.Crop.Pad < 0 {
		return fmt.Errorf("preset %s: negative crop pad %d", p.Name, p.Crop.Pad)
	}
	if p.Crop.Pad > 0 && !p.Crop.Enabled {
		return fmt.Errorf("preset %s: pad requires crop to be enabled", p.Name)
	}
	if len(p.Passes) == 0 && !p.Crop.Enabled {
		return fmt.Errorf("preset %s: nothing to do (no passes, crop disabled)", p.Name)
	}
	for i, pass := range p.Passes {
		if len(pass.Rules) == 0 && !pass.Crop {
			return fmt.Errorf("preset %s pass %d: no rules and no crop", p.Name, i)
		}
		for j, rc := range pass.Rules {
			if err := rc.Validate(); err != nil {
				return fmt.Errorf("preset %s pass %d rule %d: %w", p.Name, i, j, err)
			}
		}
	}
	return nil
}

// Set is a collection of presets keyed by name.
type Set map[string]Preset

// Get returns the named preset.
func (s Set) Get(name string) (Preset, error) {
	p, ok := s[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Names returns the preset names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge adds every preset of other, replacing presets with the same name.
func (s Set) Merge(other Set) {
	for n, p := range other {
		s[n] = p
	}
}

// file is the on-disk layout of a presets file.
type file struct {
	Presets []Preset `json:"presets"`
}

// Parse decodes and validates a presets document.
func Parse(data []byte) (Set, error) {
	var f file
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	set := Set{}
	for _, p := range f.Presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := set[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		set[p.Name] = p
	}
	return set, nil
}

// Load reads a presets file from path.
func Load(path string) (Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Marshal encodes presets in the layout Load accepts, sorted by name.
func Marshal(s Set) ([]byte, error) {
	var f file
	for _, n := range s.Names() {
		f.Presets = append(f.Presets, s[n])
	}
	return json.MarshalIndent(f, "", "  ")
}
