package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ripasso/internal/bank"
	"github.com/abhisek/ripasso/internal/router"
	"github.com/abhisek/ripasso/internal/screen"
	"github.com/abhisek/ripasso/internal/screens/history"
	"github.com/abhisek/ripasso/internal/screens/quiz"
	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/ui/components"
	"github.com/abhisek/ripasso/internal/ui/layout"
)

// Deps are the collaborators of the home screen. Banks and History may be nil.
type Deps struct {
	Registry *session.Registry
	Banks    bank.Lister
	Quiz     quiz.Deps
	History  history.Source
}

type banksLoadedMsg struct {
	Infos []bank.Info
	Err   error
}

// HomeScreen is the mode menu shown when no quiz is running.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	infos  map[string]bank.Info
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	lister := h.deps.Banks
	if lister == nil {
		return nil
	}
	return func() tea.Msg {
		infos, err := lister.List(context.Background())
		return banksLoadedMsg{Infos: infos, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(banksLoadedMsg); ok {
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.infos = make(map[string]bank.Info, len(msg.Infos))
		for _, info := range msg.Infos {
			// First listing wins, matching Chain lookup order.
			if _, seen := h.infos[info.Name]; !seen {
				h.infos[info.Name] = info
			}
		}
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) items() []components.MenuItem {
	var items []components.MenuItem
	for _, m := range h.deps.Registry.All() {
		desc, ok := h.describe(m)
		items = append(items, components.MenuItem{
			Label:       m.Label(),
			Description: desc,
			Disabled:    !ok,
			Action: func() tea.Cmd {
				return router.Push(quiz.New(h.deps.Quiz, m))
			},
		})
	}

	items = append(items, components.MenuItem{
		Label:    "History",
		Disabled: h.deps.History == nil,
		Action: func() tea.Cmd {
			return router.Push(history.New(h.deps.History, h.deps.Registry))
		},
	})
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})
	return items
}

// describe summarizes a mode. ok is false once banks are loaded and the
// mode cannot be started from them.
func (h *HomeScreen) describe(m session.Mode) (string, bool) {
	clock := session.FormatClock(m.Duration)
	if h.infos == nil {
		return clock, true
	}

	have := 0
	for _, name := range m.Banks {
		info, found := h.infos[name]
		if !found || info.Err != nil {
			return "bank " + name + " unavailable", false
		}
		if m.Kind == session.KindBlended && info.Count < m.Count {
			return fmt.Sprintf("bank %s has %d of %d", name, info.Count, m.Count), false
		}
		have += info.Count
	}

	switch m.Kind {
	case session.KindFixed:
		if have < m.Count {
			return fmt.Sprintf("needs %d, bank has %d", m.Count, have), false
		}
		return fmt.Sprintf("%d of %d · %s", m.Count, have, clock), true
	case session.KindBlended:
		return fmt.Sprintf("%d × %d of %d · %s", m.Count, len(m.Banks), have, clock), true
	}
	if have == 0 {
		return "bank is empty", false
	}
	return fmt.Sprintf("%d questions · %s", have, clock), true
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)

	// All sections share a uniform content width so they line up.
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if h.errMsg != "" {
		sections = append(sections, renderBankError(h.errMsg, cw))
	} else if h.deps.Banks != nil {
		var banks, questions, broken int
		for _, info := range h.infos {
			if info.Err != nil {
				broken++
				continue
			}
			banks++
			questions += info.Count
		}
		sections = append(sections, renderBankBar(banks, questions, broken, h.loaded, cw))
	}

	if compact {
		sections = append(sections, h.menu.ViewCompact(cw))
	} else {
		sections = append(sections, h.menu.View(cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
