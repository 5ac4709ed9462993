package session

import (
	"time"

	"github.com/abhisek/ripasso/internal/bank"
)

// View is a read-only observation of an engine. Slices are copies owned by
// the caller.
type View struct {
	Status    Status
	SessionID string
	Mode      Mode

	Questions []bank.Question
	Answers   []Answer
	Cursor    int

	StartedAt time.Time
	Remaining time.Duration
	Tier      TimeTier

	// Set once the attempt is finished.
	Termination Termination
	FinishedAt  time.Time
	Stats       Stats

	// Review state; Entries is populated only while Reviewing.
	Filter  ReviewFilter
	Entries []ReviewEntry
	Counts  ReviewCounts
}

// Current returns the question under the cursor.
func (v View) Current() (bank.Question, bool) {
	if v.Cursor < 0 || v.Cursor >= len(v.Questions) {
		return bank.Question{}, false
	}
	return v.Questions[v.Cursor], true
}

// CurrentAnswer returns the answer recorded for the question under the cursor.
func (v View) CurrentAnswer() Answer {
	if v.Cursor < 0 || v.Cursor >= len(v.Answers) {
		return Answer{}
	}
	return v.Answers[v.Cursor]
}

// AnsweredCount is the number of questions with a selected answer.
func (v View) AnsweredCount() int {
	n := 0
	for _, a := range v.Answers {
		if a.Answered() {
			n++
		}
	}
	return n
}

// AtFirst reports whether Previous would be a no-op.
func (v View) AtFirst() bool {
	return v.Cursor == 0
}

// AtLast reports whether Next would be a no-op.
func (v View) AtLast() bool {
	return v.Cursor >= len(v.Questions)-1
}

func (e *Engine) viewLocked(now time.Time) View {
	v := View{Status: e.status, Filter: e.filter}
	s := e.sess
	if s == nil {
		return v
	}

	v.SessionID = s.ID
	v.Mode = s.Mode
	v.Questions = append([]bank.Question(nil), s.Questions...)
	v.Answers = append([]Answer(nil), s.Answers...)
	v.Cursor = s.Cursor
	v.Termination = s.Termination
	v.StartedAt = s.StartedAt
	v.FinishedAt = s.FinishedAt

	at := now
	if s.Termination != TerminationNone {
		at = s.FinishedAt
	}
	v.Remaining = Remaining(at, s.StartedAt, s.Budget)
	v.Tier = ClassifyTime(v.Remaining, s.Budget, s.Mode.Thresholds())

	if s.Termination != TerminationNone {
		v.Stats = ComputeStats(s.Questions, s.Answers, s.Mode.PassThreshold)
		v.Counts = Count(s.Questions, s.Answers)
	}
	if e.status == StatusReviewing {
		v.Entries = Filter(s.Questions, s.Answers, e.filter)
	}
	return v
}
