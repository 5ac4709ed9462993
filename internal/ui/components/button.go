package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/ui/theme"
)

// Button renders a bordered button. A selected button is highlighted and
// marked with a pointer.
func Button(label string, selected bool, width int) string {
	if selected {
		return theme.ButtonActive.
			Width(width).
			Align(lipgloss.Center).
			Render("▸ " + label)
	}
	return theme.ButtonInactive.
		Width(width).
		Align(lipgloss.Center).
		Render(label)
}

// Action is a keyboard shortcut shown as a compact button.
type Action struct {
	Key   string
	Label string
}

// ActionBar renders shortcuts on one line, e.g. "[R] Review   [N] New quiz".
func ActionBar(actions []Action) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(theme.Text)

	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = keyStyle.Render("["+a.Key+"]") + " " + labelStyle.Render(a.Label)
	}
	return strings.Join(parts, "   ")
}
