package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/store"
)

type fakeSource struct {
	results []store.Result
	sums    []store.ModeSummary
	err     error
}

func (f *fakeSource) Recent(context.Context, store.ResultQuery) ([]store.Result, error) {
	return f.results, f.err
}

func (f *fakeSource) Summaries(context.Context) ([]store.ModeSummary, error) {
	return f.sums, f.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestHistoryEmpty(t *testing.T) {
	s := New(&fakeSource{}, nil)
	assert.Contains(t, s.View(100, 30), "Loading history")
	load(t, s)
	assert.Contains(t, s.View(100, 30), "No quizzes yet")
}

func TestHistoryError(t *testing.T) {
	s := New(&fakeSource{err: errors.New("db locked")}, nil)
	load(t, s)
	assert.Contains(t, s.View(100, 30), "db locked")
}

func TestHistoryListAndExpand(t *testing.T) {
	start := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		results: []store.Result{
			{SessionID: "b", Mode: "quick", Score: 80, MaxScore: 100, Passed: true, Correct: 8, Incorrect: 1, Unanswered: 1, Termination: "ended by user", StartedAt: start, FinishedAt: start.Add(4*time.Minute + 5*time.Second)},
			{SessionID: "a", Mode: "mixed", Score: 20, MaxScore: 100, Correct: 2, Termination: "time expired", StartedAt: start, FinishedAt: start.Add(15 * time.Minute)},
		},
		sums: []store.ModeSummary{{Mode: "quick", Attempts: 1, Passed: 1, BestScore: 80, MaxScore: 100}},
	}
	s := New(src, session.DefaultRegistry())
	load(t, s)

	view := s.View(120, 30)
	assert.Contains(t, view, "Quick quiz: 1 attempt(s), 1 passed, best 80/100")
	assert.Contains(t, view, "PASS")
	assert.Contains(t, view, "FAIL")
	assert.Contains(t, view, "Mixed review")

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 1, s.selected)
	s.Update(specialKey(tea.KeyEnter))
	assert.Contains(t, s.View(120, 30), "time expired in 15:00")

	s.Update(keyPress('k'))
	s.Update(specialKey(tea.KeyEnter))
	assert.Contains(t, s.View(120, 30), "ended by user in 4:05")
}
