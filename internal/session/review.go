package session

import "github.com/abhisek/ripasso/internal/bank"

// ReviewFilter selects which questions are listed during review.
type ReviewFilter int

const (
	FilterAll ReviewFilter = iota
	FilterCorrect
	FilterIncorrect  // answered, not in the correct set
	FilterUnanswered // no answer given
)

// ReviewFilters lists the filters in tab order.
var ReviewFilters = []ReviewFilter{FilterAll, FilterCorrect, FilterIncorrect, FilterUnanswered}

func (f ReviewFilter) String() string {
	switch f {
	case FilterCorrect:
		return "Correct"
	case FilterIncorrect:
		return "Incorrect"
	case FilterUnanswered:
		return "Unanswered"
	default:
		return "All"
	}
}

// Match reports whether an entry passes the filter.
func (f ReviewFilter) Match(q bank.Question, a Answer) bool {
	switch f {
	case FilterCorrect:
		return a.IsCorrectFor(q)
	case FilterIncorrect:
		return a.Answered() && !q.IsCorrect(a.Letter())
	case FilterUnanswered:
		return !a.Answered()
	default:
		return true
	}
}

// ReviewEntry is one question of a finished attempt as shown in review.
type ReviewEntry struct {
	Index    int // position in the session, 0-based
	Question bank.Question
	Given    Answer
	Correct  bool
}

// Filter returns the entries matching f in original order.
func Filter(questions []bank.Question, answers []Answer, f ReviewFilter) []ReviewEntry {
	var out []ReviewEntry
	for i, q := range questions {
		var a Answer
		if i < len(answers) {
			a = answers[i]
		}
		if !f.Match(q, a) {
			continue
		}
		out = append(out, ReviewEntry{
			Index:    i,
			Question: q,
			Given:    a,
			Correct:  a.IsCorrectFor(q),
		})
	}
	return out
}

// ReviewCounts holds how many entries each filter selects.
type ReviewCounts struct {
	All        int
	Correct    int
	Incorrect  int
	Unanswered int
}

// For returns the count for f.
func (c ReviewCounts) For(f ReviewFilter) int {
	switch f {
	case FilterCorrect:
		return c.Correct
	case FilterIncorrect:
		return c.Incorrect
	case FilterUnanswered:
		return c.Unanswered
	default:
		return c.All
	}
}

// Count tallies every filter in one pass.
func Count(questions []bank.Question, answers []Answer) ReviewCounts {
	c := ReviewCounts{All: len(questions)}
	for i, q := range questions {
		var a Answer
		if i < len(answers) {
			a = answers[i]
		}
		switch {
		case !a.Answered():
			c.Unanswered++
		case q.IsCorrect(a.Letter()):
			c.Correct++
		default:
			c.Incorrect++
		}
	}
	return c
}
