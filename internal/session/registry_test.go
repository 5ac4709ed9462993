package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	modes := r.All()
	require.Len(t, modes, 3)
	assert.Equal(t, "quick", modes[0].Name)

	m, err := r.Get("mixed")
	require.NoError(t, err)
	assert.Equal(t, KindBlended, m.Kind)
	assert.Equal(t, 10, m.ExpectedQuestions())

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseRegistry(t *testing.T) {
	data := []byte(`
modes:
  - name: cardio
    title: Cardiology sprint
    kind: fixed
    banks: [cardio]
    count: 15
    duration: 20m
  - name: boards
    kind: blended
    banks: [cardio, endo, renal]
    count: 20
    duration: 1h30m
    pass_threshold: 0.7
    tiers:
      warning: 0.3
      critical: 0.1
`)
	r, err := ParseRegistry(data)
	require.NoError(t, err)

	cardio, err := r.Get("cardio")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, cardio.Duration)
	assert.Equal(t, DefaultPassThreshold, cardio.PassThreshold)
	assert.Equal(t, DefaultTiers, cardio.Thresholds())
	assert.Equal(t, "Cardiology sprint", cardio.Label())

	boards, err := r.Get("boards")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, boards.Duration)
	assert.Equal(t, 0.7, boards.PassThreshold)
	assert.Equal(t, TierThresholds{Warning: 0.3, Critical: 0.1}, boards.Thresholds())
	assert.Equal(t, 60, boards.ExpectedQuestions())
	assert.Equal(t, "boards", boards.Label())
}

func TestParseRegistryRejects(t *testing.T) {
	tests := map[string]string{
		"empty":            `modes: []`,
		"bad yaml":         `modes: [`,
		"unknown kind":     "modes:\n  - {name: a, kind: random, banks: [x], count: 1, duration: 1m}",
		"no duration":      "modes:\n  - {name: a, kind: fixed, banks: [x], count: 1}",
		"fixed two banks":  "modes:\n  - {name: a, kind: fixed, banks: [x, y], count: 1, duration: 1m}",
		"fixed zero count": "modes:\n  - {name: a, kind: fixed, banks: [x], duration: 1m}",
		"blended one bank": "modes:\n  - {name: a, kind: blended, banks: [x], count: 2, duration: 1m}",
		"blended repeat":   "modes:\n  - {name: a, kind: blended, banks: [x, x], count: 2, duration: 1m}",
		"threshold > 1":    "modes:\n  - {name: a, kind: full, banks: [x], duration: 1m, pass_threshold: 1.5}",
		"duplicate name":   "modes:\n  - {name: a, kind: full, banks: [x], duration: 1m}\n  - {name: a, kind: full, banks: [y], duration: 1m}",
		"bad tiers":        "modes:\n  - {name: a, kind: full, banks: [x], duration: 1m, tiers: {warning: 0.1, critical: 0.4}}",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestRegistryMarshalRoundTrip(t *testing.T) {
	data, err := DefaultRegistry().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "duration: 10m0s")

	r, err := ParseRegistry(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistry().All(), r.All())
}
