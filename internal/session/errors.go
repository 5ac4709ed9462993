package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition is wrapped by every TransitionError.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidSelection is returned when a letter is not an option of the
	// current question. The session is left untouched.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrTimeExpired is returned by an answer or navigation intent that
	// arrived after the deadline. The session is Finished when it is returned.
	ErrTimeExpired = errors.New("time expired")
)

// TransitionError reports an intent that is not allowed in the current status.
type TransitionError struct {
	Intent string
	Status Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed while %s", e.Intent, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IndexOutOfRangeError reports a GoTo outside [0, Len).
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("question index %d out of range [0, %d)", e.Index, e.Len)
}

// Shortfall describes one bank that holds fewer questions than a mode needs.
type Shortfall struct {
	Bank string
	Have int
	Need int
}

// InsufficientQuestionsError is returned by Sample when one or more banks
// cannot satisfy the mode's count.
type InsufficientQuestionsError struct {
	Mode       string
	Shortfalls []Shortfall
}

func (e *InsufficientQuestionsError) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("%s has %d, needs %d", s.Bank, s.Have, s.Need)
	}
	return fmt.Sprintf("mode %q: insufficient questions: %s", e.Mode, strings.Join(parts, ", "))
}
