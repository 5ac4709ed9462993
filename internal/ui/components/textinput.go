package components

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ripasso/internal/ui/theme"
)

// NumberInput wraps bubbles/textinput for entering a number in [Min, Max].
type NumberInput struct {
	Model    textinput.Model
	Min, Max int
	err      string
}

// NewNumberInput creates a focused input accepting digits only.
func NewNumberInput(placeholder string, lo, hi int) NumberInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = len(strconv.Itoa(hi))
	ti.Focus()

	return NumberInput{Model: ti, Min: lo, Max: hi}
}

// Init returns the initial command.
func (n NumberInput) Init() tea.Cmd {
	return n.Model.Focus()
}

// Update handles messages. Non-digit characters are dropped.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		k := kmsg.String()
		if len(k) == 1 && (k[0] < '0' || k[0] > '9') {
			return n, nil
		}
	}

	n.err = ""
	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

// View renders the input and any validation error.
func (n NumberInput) View() string {
	view := n.Model.View()
	if n.err != "" {
		view += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render(n.err)
	}
	return view
}

// Value parses the input. On failure the error is shown by View.
func (n *NumberInput) Value() (int, bool) {
	raw := strings.TrimSpace(n.Model.Value())
	v, err := strconv.Atoi(raw)
	if err != nil || v < n.Min || v > n.Max {
		n.err = fmt.Sprintf("enter %d-%d", n.Min, n.Max)
		return 0, false
	}
	return v, true
}
