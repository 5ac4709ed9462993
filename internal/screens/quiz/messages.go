package quiz

import "time"

// tickMsg is sent every second while a quiz is running. SessionID ties the
// tick to the attempt that scheduled it.
type tickMsg struct {
	SessionID string
	At        time.Time
}

// startedMsg reports the outcome of Start or NewQuiz.
type startedMsg struct {
	Err error
}

// recordedMsg confirms a finished attempt was written to history.
type recordedMsg struct {
	SessionID string
	Err       error
}
