package session

import (
	"fmt"
	"time"
)

// TimeTier classifies how much of the budget is left.
type TimeTier int

const (
	TierAmple TimeTier = iota
	TierWarning
	TierCritical
)

func (t TimeTier) String() string {
	switch t {
	case TierWarning:
		return "warning"
	case TierCritical:
		return "critical"
	default:
		return "ample"
	}
}

// TierThresholds are fractions of the budget at or below which the remaining
// time enters the Warning and Critical tiers.
type TierThresholds struct {
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// DefaultTiers applies to every mode that does not override them.
var DefaultTiers = TierThresholds{Warning: 0.5, Critical: 0.2}

// Validate requires 0 < Critical < Warning <= 1.
func (t TierThresholds) Validate() error {
	if t.Critical <= 0 || t.Warning <= t.Critical || t.Warning > 1 {
		return fmt.Errorf("invalid tier thresholds: warning=%v critical=%v", t.Warning, t.Critical)
	}
	return nil
}

// Remaining returns max(0, budget - (now - startedAt)).
func Remaining(now, startedAt time.Time, budget time.Duration) time.Duration {
	left := budget - now.Sub(startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// ClassifyTime maps remaining time to a tier as a fraction of budget.
func ClassifyTime(remaining, budget time.Duration, th TierThresholds) TimeTier {
	if budget <= 0 {
		return TierCritical
	}
	frac := float64(remaining) / float64(budget)
	switch {
	case frac <= th.Critical:
		return TierCritical
	case frac <= th.Warning:
		return TierWarning
	default:
		return TierAmple
	}
}

// FormatClock renders d as M:SS, or H:MM:SS for an hour or more.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
