package components

import (
	"strings"

	"github.com/abhisek/ripasso/internal/ui/theme"
)

// Tabs renders a row of labels with the active one highlighted.
func Tabs(labels []string, active int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			parts[i] = theme.TabActive.Render(l)
		} else {
			parts[i] = theme.Tab.Render(l)
		}
	}
	return strings.Join(parts, " ")
}
