package session

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/ripasso/internal/bank"
)

// Sample selects the question set for one attempt of mode from banks, keyed
// by bank name. Input slices are never modified.
func Sample(banks map[string][]bank.Question, mode Mode, rng *rand.Rand) ([]bank.Question, error) {
	var short []Shortfall
	need := func(name string, n int) {
		if have := len(banks[name]); have < n {
			short = append(short, Shortfall{Bank: name, Have: have, Need: n})
		}
	}

	switch mode.Kind {
	case KindFixed:
		need(mode.Banks[0], mode.Count)
	case KindFull:
		need(mode.Banks[0], 1)
	case KindBlended:
		for _, name := range mode.Banks {
			need(name, mode.Count)
		}
	default:
		return nil, fmt.Errorf("mode %q: unknown kind %q", mode.Name, mode.Kind)
	}
	if len(short) > 0 {
		return nil, &InsufficientQuestionsError{Mode: mode.Name, Shortfalls: short}
	}

	switch mode.Kind {
	case KindFixed:
		return draw(banks[mode.Banks[0]], mode.Count, rng), nil

	case KindFull:
		src := banks[mode.Banks[0]]
		if mode.Shuffle {
			return draw(src, len(src), rng), nil
		}
		out := make([]bank.Question, len(src))
		copy(out, src)
		return out, nil

	default:
		var out []bank.Question
		for _, name := range mode.Banks {
			out = append(out, draw(banks[name], mode.Count, rng)...)
		}
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out, nil
	}
}

// draw picks n questions uniformly without replacement using a partial
// Fisher-Yates shuffle over an index permutation.
func draw(src []bank.Question, n int, rng *rand.Rand) []bank.Question {
	idx := make([]int, len(src))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make([]bank.Question, n)
	for i := 0; i < n; i++ {
		out[i] = src[idx[i]]
	}
	return out
}
