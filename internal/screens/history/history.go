// Package history lists finished quizzes recorded in the store.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/router"
	"github.com/abhisek/ripasso/internal/screen"
	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/store"
	"github.com/abhisek/ripasso/internal/ui/layout"
	"github.com/abhisek/ripasso/internal/ui/theme"
)

const recentLimit = 50

// Source reads recorded results.
type Source interface {
	Recent(ctx context.Context, q store.ResultQuery) ([]store.Result, error)
	Summaries(ctx context.Context) ([]store.ModeSummary, error)
}

type historyLoadedMsg struct {
	Results   []store.Result
	Summaries []store.ModeSummary
	Err       error
}

// HistoryScreen displays per-mode summaries and recent attempts.
type HistoryScreen struct {
	source    Source
	titles    map[string]string
	results   []store.Result
	summaries []store.ModeSummary
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. reg supplies mode titles and may be nil.
func New(source Source, reg *session.Registry) *HistoryScreen {
	titles := make(map[string]string)
	if reg != nil {
		for _, m := range reg.All() {
			titles[m.Name] = m.Label()
		}
	}
	return &HistoryScreen{
		source:   source,
		titles:   titles,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	src := s.source
	return func() tea.Msg {
		ctx := context.Background()

		results, err := src.Recent(ctx, store.ResultQuery{Limit: recentLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		sums, err := src.Summaries(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Results: results, Summaries: sums}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
			s.summaries = msg.Summaries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) modeTitle(name string) string {
	if t, ok := s.titles[name]; ok {
		return t
	}
	return name
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Finish one to see it here!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for _, sum := range s.summaries {
		line := fmt.Sprintf("%s: %d attempt(s), %d passed, best %d/%d",
			s.modeTitle(sum.Mode), sum.Attempts, sum.Passed, sum.BestScore, sum.MaxScore)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		verdict := theme.Incorrect.Render("FAIL")
		if r.Passed {
			verdict = theme.Correct.Render("PASS")
		}

		line := fmt.Sprintf("%s%s  %-24s %3d/%-3d ",
			prefix, r.FinishedAt.Local().Format("Jan 02 15:04"), s.modeTitle(r.Mode), r.Score, r.MaxScore)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)+verdict))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %d correct · %d incorrect · %d unanswered · %s in %s",
				r.Correct, r.Incorrect, r.Unanswered, r.Termination, session.FormatClock(r.FinishedAt.Sub(r.StartedAt)))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
