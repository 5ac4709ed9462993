package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for framed sections.
// All cards are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a rounded frame, centered in both directions.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a padded card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Render(content)
}

// AccentCard is a Card with a colored border.
func AccentCard(content string, cw int, border color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 2).
		Render(content)
}
