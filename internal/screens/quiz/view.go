package quiz

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/bank"
	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/ui/components"
	"github.com/abhisek/ripasso/internal/ui/layout"
	"github.com/abhisek/ripasso/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if !s.started {
		return renderLoading(width)
	}
	if s.confirmEnd {
		return renderEndConfirm(width, s.view)
	}

	var body string
	switch s.view.Status {
	case session.StatusInProgress:
		body = renderQuestion(s.view, width, s.notice, s.jumpView())
	case session.StatusFinished:
		body = renderResults(s.view, width, s.notice)
	case session.StatusReviewing:
		body = renderReview(s.view, s.reviewPos, width, s.deps.Explainer.Enabled())
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, body)
}

func (s *QuizScreen) jumpView() string {
	if !s.jumping {
		return ""
	}
	return "Go to question: " + s.jump.View()
}

func renderClock(remaining time.Duration, tier session.TimeTier) string {
	clock := "⏱ " + session.FormatClock(remaining)
	switch tier {
	case session.TierCritical:
		return theme.TimerCritical.Render(clock)
	case session.TierWarning:
		return theme.TimerWarning.Render(clock)
	}
	return theme.TimerAmple.Render(clock)
}

// renderQuestion renders the question under the cursor of a running quiz.
func renderQuestion(v session.View, width int, notice, jump string) string {
	cw := components.ContentWidth(width)
	q, ok := v.Current()
	if !ok {
		return renderLoading(width)
	}

	var b strings.Builder

	info := fmt.Sprintf("Question %d of %d", v.Cursor+1, len(v.Questions))
	answered := fmt.Sprintf("Answered %d/%d", v.AnsweredCount(), len(v.Questions))
	gap := max(1, cw-lipgloss.Width(info)-lipgloss.Width(answered))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info))
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(answered))
	b.WriteString("\n")
	b.WriteString(components.CountBar("", v.Cursor+1, len(v.Questions), cw).View())
	b.WriteString("\n\n")

	b.WriteString(components.Card(renderQuestionBody(q, v.CurrentAnswer(), cw-6, false), cw))
	b.WriteString("\n")

	switch {
	case jump != "":
		b.WriteString(jump)
	case notice != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(notice))
	case !v.CurrentAnswer().Answered():
		b.WriteString(theme.Hint.Render("Not answered yet"))
	}
	b.WriteString("\n\n")

	nav := []components.Action{}
	if !v.AtFirst() {
		nav = append(nav, components.Action{Key: "←", Label: "Previous"})
	}
	if !v.AtLast() {
		nav = append(nav, components.Action{Key: "→", Label: "Next"})
	}
	nav = append(nav, components.Action{Key: "Esc", Label: "End quiz"})
	b.WriteString(components.ActionBar(nav))

	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

func renderQuestionBody(q bank.Question, given session.Answer, width int, reveal bool) string {
	text := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(q.Text)

	choices := make([]components.Choice, len(q.Options))
	for i, o := range q.Options {
		choices[i] = components.Choice{Key: string(o.Letter), Text: o.Text}
	}
	correct := make(map[string]bool, len(q.Correct))
	for _, l := range q.Correct {
		correct[string(l)] = true
	}
	opts := components.OptionList{
		Choices: choices,
		Chosen:  string(given.Letter()),
		Correct: correct,
		Reveal:  reveal,
	}
	return text + "\n\n" + opts.View(width)
}

// renderResults renders the statistics of a finished attempt.
func renderResults(v session.View, width int, notice string) string {
	cw := components.ContentWidth(width)
	st := v.Stats

	heading := "Quiz complete"
	if v.Termination == session.TerminationTimeExpired {
		heading = "Time expired"
	}

	verdict, verdictColor := "FAILED", theme.Error
	if st.Passed {
		verdict, verdictColor = "PASSED", theme.Success
	}

	var b strings.Builder
	b.WriteString(layout.Centered(cw, theme.Title, heading))
	b.WriteString("\n")
	if notice != "" {
		b.WriteString(layout.Centered(cw, theme.Subtitle, notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	score := fmt.Sprintf("%d / %d  (%.0f%%)", st.Score, st.MaxScore, st.Percent)
	banner := lipgloss.NewStyle().Foreground(verdictColor).Bold(true).Render(verdict) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(score) + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("pass mark %d", st.PassMark))
	b.WriteString(components.AccentCard(banner, cw, verdictColor))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Score", st.Percent/100, true, cw)
	bar.Fill = verdictColor
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	rows := []struct {
		label string
		n     int
		style lipgloss.Style
	}{
		{"Correct", st.Correct, theme.Correct},
		{"Incorrect", st.Incorrect, theme.Incorrect},
		{"Unanswered", st.Unanswered, theme.Unanswered},
		{"Total", st.Total, theme.Body},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", r.label, r.style.Render(fmt.Sprint(r.n))))
	}
	b.WriteString("\n")
	b.WriteString(components.ActionBar([]components.Action{
		{Key: "R", Label: "Review answers"},
		{Key: "N", Label: "New quiz"},
		{Key: "M", Label: "Menu"},
	}))

	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

// renderReview renders the filter tabs and the selected entry.
func renderReview(v session.View, pos, width int, canExplain bool) string {
	cw := components.ContentWidth(width)

	labels := make([]string, len(session.ReviewFilters))
	for i, f := range session.ReviewFilters {
		labels[i] = fmt.Sprintf("%s (%d)", f, v.Counts.For(f))
	}

	var b strings.Builder
	b.WriteString(components.Tabs(labels, int(v.Filter)))
	b.WriteString("\n\n")

	if len(v.Entries) == 0 {
		b.WriteString(theme.Hint.Render("No questions match this filter."))
		return lipgloss.NewStyle().Width(cw).Render(b.String())
	}

	entry := v.Entries[pos]
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d", entry.Index+1)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("   %d of %d", pos+1, len(v.Entries))))
	b.WriteString("\n")

	b.WriteString(components.Card(renderReviewEntry(entry, cw-6), cw))
	b.WriteString("\n\n")

	actions := []components.Action{{Key: "Tab", Label: "Filter"}}
	if canExplain {
		actions = append(actions, components.Action{Key: "X", Label: "Explain"})
	}
	actions = append(actions,
		components.Action{Key: "Esc", Label: "Results"},
		components.Action{Key: "N", Label: "New quiz"},
	)
	b.WriteString(components.ActionBar(actions))

	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

func renderReviewEntry(e session.ReviewEntry, width int) string {
	q := e.Question

	var b strings.Builder
	b.WriteString(renderQuestionBody(q, e.Given, width, true))
	b.WriteString("\n\n")

	if e.Given.Answered() {
		text, _ := q.OptionText(e.Given.Letter())
		style := theme.Incorrect
		if e.Correct {
			style = theme.Correct
		}
		b.WriteString("Your answer:    " + style.Render(fmt.Sprintf("%s) %s", e.Given.Letter(), text)))
	} else {
		b.WriteString("Your answer:    " + theme.Unanswered.Render("no answer given"))
	}
	b.WriteString("\n")

	for i, l := range q.Correct {
		prefix := "Correct answer: "
		if i > 0 {
			prefix = strings.Repeat(" ", len(prefix))
		}
		text, _ := q.OptionText(l)
		b.WriteString(prefix + theme.Correct.Render(fmt.Sprintf("%s) %s", l, text)) + "\n")
	}

	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Width(width).Render(q.Explanation))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderEndConfirm(width int, v session.View) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "End the quiz now?"))
	b.WriteString("\n")
	unanswered := len(v.Questions) - v.AnsweredCount()
	sub := "All questions are answered."
	if unanswered > 0 {
		sub = fmt.Sprintf("%d question(s) are still unanswered and will score zero.", unanswered)
	}
	b.WriteString(layout.Centered(width, theme.Subtitle, sub))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), "[Y] Yes, end and score"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n\n  Preparing your quiz...")
}

func renderError(width int, errMsg string) string {
	return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
		fmt.Sprintf("\n\n\n  %s\n\n  Press any key to go back.", errMsg))
}

func joinLetters(ls []bank.Letter) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}
