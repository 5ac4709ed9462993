package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnknownMode is returned by Registry.Get for names not in the registry.
var ErrUnknownMode = errors.New("unknown mode")

// Registry is the ordered set of quiz modes offered to the taker.
type Registry struct {
	modes []Mode
}

type registryFile struct {
	Modes []Mode `yaml:"modes"`
}

// DefaultModes are used when no mode file is configured.
func DefaultModes() []Mode {
	return []Mode{
		{
			Name:          "quick",
			Title:         "Quick quiz",
			Kind:          KindFixed,
			Banks:         []string{"general"},
			Count:         10,
			Duration:      10 * time.Minute,
			PassThreshold: DefaultPassThreshold,
		},
		{
			Name:          "endocrinology",
			Title:         "Endocrinology (full bank)",
			Kind:          KindFull,
			Banks:         []string{"endo"},
			Shuffle:       true,
			Duration:      time.Hour,
			PassThreshold: DefaultPassThreshold,
		},
		{
			Name:          "mixed",
			Title:         "Mixed review",
			Kind:          KindBlended,
			Banks:         []string{"endo", "general"},
			Count:         5,
			Duration:      15 * time.Minute,
			PassThreshold: DefaultPassThreshold,
		},
	}
}

// NewRegistry validates modes and builds a registry preserving their order.
func NewRegistry(modes []Mode) (*Registry, error) {
	if len(modes) == 0 {
		return nil, errors.New("no modes defined")
	}
	seen := make(map[string]bool, len(modes))
	for _, m := range modes {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("duplicate mode %q", m.Name)
		}
		seen[m.Name] = true
	}
	return &Registry{modes: modes}, nil
}

// DefaultRegistry returns the built-in modes.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultModes())
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRegistry decodes a YAML mode file. Modes without a pass threshold get
// DefaultPassThreshold.
func ParseRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse modes: %w", err)
	}
	for i := range f.Modes {
		if f.Modes[i].PassThreshold == 0 {
			f.Modes[i].PassThreshold = DefaultPassThreshold
		}
	}
	return NewRegistry(f.Modes)
}

// LoadRegistry reads a YAML mode file from path.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read modes file: %w", err)
	}
	return ParseRegistry(data)
}

// All returns the modes in display order.
func (r *Registry) All() []Mode {
	out := make([]Mode, len(r.modes))
	copy(out, r.modes)
	return out
}

// Get looks up a mode by name.
func (r *Registry) Get(name string) (Mode, error) {
	for _, m := range r.modes {
		if m.Name == name {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Marshal encodes the registry in the mode file format.
func (r *Registry) Marshal() ([]byte, error) {
	return yaml.Marshal(registryFile{Modes: r.modes})
}
