package quiz

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/explain"
	"github.com/abhisek/ripasso/internal/router"
	"github.com/abhisek/ripasso/internal/screen"
	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/ui/components"
	"github.com/abhisek/ripasso/internal/ui/layout"
	"github.com/abhisek/ripasso/internal/ui/theme"
)

type explainedMsg struct {
	Explanation *explain.Explanation
	Err         error
}

// ExplainScreen shows the generated explanation of one reviewed question.
type ExplainScreen struct {
	svc   *explain.Service
	entry session.ReviewEntry

	loading bool
	exp     *explain.Explanation
	errMsg  string
}

var _ screen.Screen = (*ExplainScreen)(nil)
var _ screen.KeyHintProvider = (*ExplainScreen)(nil)

// NewExplainScreen creates a screen explaining entry.
func NewExplainScreen(svc *explain.Service, entry session.ReviewEntry) *ExplainScreen {
	return &ExplainScreen{svc: svc, entry: entry, loading: true}
}

func (s *ExplainScreen) Init() tea.Cmd {
	svc, q := s.svc, s.entry.Question
	return func() tea.Msg {
		e, err := svc.Explain(context.Background(), q)
		return explainedMsg{Explanation: e, Err: err}
	}
}

func (s *ExplainScreen) Title() string {
	return fmt.Sprintf("Explanation · Question %d", s.entry.Index+1)
}

func (s *ExplainScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back to review"}}
}

func (s *ExplainScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.exp = msg.Explanation
		}
	case tea.KeyMsg:
		if msg.String() == "q" {
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *ExplainScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	q := s.entry.Question

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw-6).Render(q.Text))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("Asking the tutor..."))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Could not explain this question: " + s.errMsg))
	default:
		b.WriteString(renderExplanation(s.exp, s.entry, cw-6))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(b.String(), cw))
}

func renderExplanation(e *explain.Explanation, entry session.ReviewEntry, width int) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var b strings.Builder
	b.WriteString(body.Render(e.Summary))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Why " + joinLetters(entry.Question.Correct) + ":"))
	b.WriteString("\n")
	b.WriteString(body.Render(e.WhyCorrect))

	for _, d := range e.Distractors {
		style := lipgloss.NewStyle().Foreground(theme.TextDim).Width(width)
		if entry.Given.Letter() == d.Letter {
			style = style.Foreground(theme.Error)
		}
		b.WriteString("\n\n")
		b.WriteString(style.Render(fmt.Sprintf("%s) %s", d.Letter, d.Reason)))
	}
	return b.String()
}
