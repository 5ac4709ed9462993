package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/ui/theme"
)

// Choice is one lettered option of a question.
type Choice struct {
	Key  string
	Text string
}

// OptionList renders the lettered options of a multiple-choice question.
// Before Reveal, only the chosen option is highlighted. After Reveal,
// correct options are green and a wrong choice is red.
type OptionList struct {
	Choices []Choice
	Chosen  string
	Correct map[string]bool
	Reveal  bool
}

// View renders the options at the given width.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, c := range o.Choices {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(o.renderChoice(c, width))
	}
	return b.String()
}

func (o OptionList) renderChoice(c Choice, width int) string {
	chosen := c.Key == o.Chosen
	marker := "  "
	if chosen {
		marker = "▸ "
	}

	style := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
	switch {
	case o.Reveal && o.Correct[c.Key]:
		style = style.Foreground(theme.Success).Bold(true)
		if chosen {
			marker = "✓ "
		}
	case o.Reveal && chosen:
		style = style.Foreground(theme.Error).Bold(true)
		marker = "✗ "
	case o.Reveal:
		style = style.Foreground(theme.TextDim)
	case chosen:
		style = style.Foreground(theme.Primary).Bold(true)
	}

	return style.Render(marker + c.Key + ")  " + c.Text)
}
