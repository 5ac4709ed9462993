package session

import (
	"fmt"
	"time"

	"github.com/abhisek/ripasso/internal/validate"
)

// Kind is the sampling policy of a quiz mode.
type Kind string

const (
	KindFixed   Kind = "fixed"   // Count questions drawn from one bank
	KindFull    Kind = "full"    // every question of one bank
	KindBlended Kind = "blended" // Count questions from each of several banks
)

// DefaultPassThreshold is the fraction of the maximum score needed to pass.
const DefaultPassThreshold = 0.6

// Mode is an immutable quiz configuration.
type Mode struct {
	// Name is the registry key, also accepted on the command line.
	Name string `yaml:"name" validate:"required,excludesall= /"`

	// Title is the menu label.
	Title string `yaml:"title"`

	Kind Kind `yaml:"kind" validate:"required,oneof=fixed full blended"`

	// Banks lists the bank names the mode draws from.
	Banks []string `yaml:"banks" validate:"min=1,dive,required"`

	// Count is the number of questions for a fixed mode and the number per
	// bank for a blended mode. Unused by full-bank modes.
	Count int `yaml:"count" validate:"gte=0"`

	// Shuffle randomizes the order of a full-bank mode.
	Shuffle bool `yaml:"shuffle"`

	// Duration is the time budget of the attempt.
	Duration time.Duration `yaml:"duration" validate:"gt=0"`

	// PassThreshold is a fraction in (0, 1].
	PassThreshold float64 `yaml:"pass_threshold" validate:"gt=0,lte=1"`

	// Tiers overrides the countdown tier boundaries.
	Tiers TierThresholds `yaml:"tiers"`
}

// Label returns Title, falling back to Name.
func (m Mode) Label() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// Thresholds returns the mode's tier boundaries, or DefaultTiers when unset.
func (m Mode) Thresholds() TierThresholds {
	if m.Tiers == (TierThresholds{}) {
		return DefaultTiers
	}
	return m.Tiers
}

// ExpectedQuestions returns the session length the mode produces, or -1 for
// full-bank modes whose length depends on the bank.
func (m Mode) ExpectedQuestions() int {
	switch m.Kind {
	case KindFixed:
		return m.Count
	case KindBlended:
		return m.Count * len(m.Banks)
	}
	return -1
}

// Validate checks field constraints and the per-kind shape of the mode.
func (m Mode) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("mode %q: %w", m.Name, err)
	}

	switch m.Kind {
	case KindFixed:
		if len(m.Banks) != 1 || m.Count < 1 {
			return fmt.Errorf("mode %q: fixed mode needs one bank and count >= 1", m.Name)
		}
	case KindFull:
		if len(m.Banks) != 1 {
			return fmt.Errorf("mode %q: full mode needs exactly one bank", m.Name)
		}
	case KindBlended:
		if len(m.Banks) < 2 || m.Count < 1 {
			return fmt.Errorf("mode %q: blended mode needs two or more banks and count >= 1", m.Name)
		}
		seen := make(map[string]bool, len(m.Banks))
		for _, b := range m.Banks {
			if seen[b] {
				return fmt.Errorf("mode %q: bank %q listed twice", m.Name, b)
			}
			seen[b] = true
		}
	}

	if m.Tiers != (TierThresholds{}) {
		if err := m.Tiers.Validate(); err != nil {
			return fmt.Errorf("mode %q: %w", m.Name, err)
		}
	}
	return nil
}
