// Package layout arranges the header, screen body and footer of every frame.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight returns the rows left for the screen body.
func ContentHeight(totalHeight int) int {
	return max(0, totalHeight-HeaderHeight-FooterHeight)
}

// RenderMinSizeMessage asks the user to enlarge the terminal. A running
// quiz keeps counting down behind it.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small: %d x %d\n\nResize to at least %d x %d.\nA running quiz keeps its timer going.",
		width, height, MinWidth, MinHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// bar draws the rounded box shared by header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader draws the brand on the left, title in the centre and status
// on the right. status is already styled, typically the quiz countdown.
func RenderHeader(title, status string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Ripasso")
	title = lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	inner := max(0, width-4)

	bw, tw, sw := lipgloss.Width(brand), lipgloss.Width(title), lipgloss.Width(status)
	leftGap := max(1, (inner-tw)/2-bw)
	rightGap := max(1, inner-bw-leftGap-tw-sw)

	return bar(brand+strings.Repeat(" ", leftGap)+title+strings.Repeat(" ", rightGap)+status, width)
}

// RenderFooter lists key hints, dropping trailing hints that do not fit.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	content := " "
	for _, h := range hints {
		part := "  " + keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if lipgloss.Width(content+part) > width-4 {
			break
		}
		content += part
	}
	return bar(content, width)
}

// RenderFrame stacks header, body and footer, padding the body to fill
// height.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Centered renders s horizontally centered in width with the given style.
func Centered(width int, style lipgloss.Style, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}
