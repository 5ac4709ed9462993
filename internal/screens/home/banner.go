package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/ui/theme"
)

const titleFull = ` ██████╗ ██╗██████╗  █████╗ ███████╗███████╗ ██████╗
 ██╔══██╗██║██╔══██╗██╔══██╗██╔════╝██╔════╝██╔═══██╗
 ██████╔╝██║██████╔╝███████║███████╗███████╗██║   ██║
 ██╔══██╗██║██╔═══╝ ██╔══██║╚════██║╚════██║██║   ██║
 ██║  ██║██║██║     ██║  ██║███████║███████║╚██████╔╝
 ╚═╝  ╚═╝╚═╝╚═╝     ╚═╝  ╚═╝╚══════╝╚══════╝ ╚═════╝`

const titleCompact = "R · I · P · A · S · S · O"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art)) + "\n" +
		lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("timed multiple-choice review")
}

// renderBankBar summarizes the loaded question banks in a bordered box.
func renderBankBar(banks, questions, broken int, loaded bool, cw int) string {
	var text string
	switch {
	case !loaded:
		text = lipgloss.NewStyle().Foreground(theme.TextDim).Render("Loading question banks...")
	default:
		text = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("%d questions available", questions)) +
			lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("  in %d bank(s)", banks))
		if broken > 0 {
			text += lipgloss.NewStyle().Foreground(theme.Error).
				Render(fmt.Sprintf("  · %d unreadable", broken))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

func renderBankError(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(cw).
		Align(lipgloss.Center).
		Render("Could not list question banks: " + msg)
}
