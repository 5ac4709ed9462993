package session

import (
	"time"

	"github.com/abhisek/ripasso/internal/bank"
)

// Status is the lifecycle state of the engine.
type Status int

const (
	StatusNotStarted Status = iota // no session; mode menu
	StatusInProgress               // answering, timer running
	StatusFinished                 // scored, results shown
	StatusReviewing                // browsing a finished attempt
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in progress"
	case StatusFinished:
		return "finished"
	case StatusReviewing:
		return "reviewing"
	default:
		return "not started"
	}
}

// Termination records how an attempt ended.
type Termination int

const (
	TerminationNone Termination = iota
	TerminationUserEnded
	TerminationTimeExpired
)

func (t Termination) String() string {
	switch t {
	case TerminationUserEnded:
		return "ended by user"
	case TerminationTimeExpired:
		return "time expired"
	default:
		return "none"
	}
}

// Answer is the taker's selection for one question. The zero value is
// unanswered.
type Answer struct {
	letter bank.Letter
}

// Selected returns an answer holding l.
func Selected(l bank.Letter) Answer {
	return Answer{letter: l}
}

// Answered reports whether a letter was selected.
func (a Answer) Answered() bool {
	return a.letter != ""
}

// Letter returns the selected letter, or "" when unanswered.
func (a Answer) Letter() bank.Letter {
	return a.letter
}

// IsCorrectFor reports whether the answer is a member of q's correct set.
func (a Answer) IsCorrectFor(q bank.Question) bool {
	return a.Answered() && q.IsCorrect(a.letter)
}

// Session is the mutable record of one attempt. It is owned by an Engine and
// never shared outside it; observers receive a View.
type Session struct {
	// ID correlates log lines of one attempt.
	ID string

	// Mode the attempt was started with.
	Mode Mode

	// Questions is fixed once sampled.
	Questions []bank.Question

	// Answers has the same length as Questions.
	Answers []Answer

	// Cursor is the index of the displayed question.
	Cursor int

	// StartedAt anchors the countdown.
	StartedAt time.Time

	// Budget is the mode duration captured at start.
	Budget time.Duration

	// Score is valid once Termination is set.
	Score int

	// Termination is set exactly once, together with FinishedAt.
	Termination Termination

	// FinishedAt is when the attempt ended.
	FinishedAt time.Time
}

func newSession(id string, mode Mode, questions []bank.Question, now time.Time) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		Questions: questions,
		Answers:   make([]Answer, len(questions)),
		StartedAt: now,
		Budget:    mode.Duration,
	}
}

// Deadline is when the countdown reaches zero.
func (s *Session) Deadline() time.Time {
	return s.StartedAt.Add(s.Budget)
}

// finish scores the attempt and records how it ended. It is a no-op once
// the session is already terminated.
func (s *Session) finish(reason Termination, now time.Time) bool {
	if s.Termination != TerminationNone {
		return false
	}
	s.Score = Score(s.Questions, s.Answers)
	s.Termination = reason
	s.FinishedAt = now
	return true
}
