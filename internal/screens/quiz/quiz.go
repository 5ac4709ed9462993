// Package quiz is the screen that runs a timed quiz, shows its results, and
// reviews the finished attempt.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/ripasso/internal/bank"
	"github.com/abhisek/ripasso/internal/explain"
	"github.com/abhisek/ripasso/internal/router"
	"github.com/abhisek/ripasso/internal/screen"
	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/store"
	"github.com/abhisek/ripasso/internal/ui/components"
	"github.com/abhisek/ripasso/internal/ui/layout"
)

// Recorder stores finished attempts.
type Recorder interface {
	Append(ctx context.Context, r store.Result) error
}

// Deps are the collaborators of a QuizScreen. Results and Explainer may be nil.
type Deps struct {
	Engine    *session.Engine
	Results   Recorder
	Explainer *explain.Service
	Log       zerolog.Logger

	// Now must agree with the engine clock. Defaults to time.Now.
	Now func() time.Time
}

type keyMap struct {
	Next     key.Binding
	Previous key.Binding
	Jump     key.Binding
	End      key.Binding
	Review   key.Binding
	NewQuiz  key.Binding
	Menu     key.Binding
	Filter   key.Binding
	Up       key.Binding
	Down     key.Binding
	Explain  key.Binding
	Back     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

var keys = keyMap{
	Next:     key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→", "next")),
	Previous: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
	Jump:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
	End:      key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "end quiz")),
	Review:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "review")),
	NewQuiz:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new quiz")),
	Menu:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
	Filter:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
	Up:       key.NewBinding(key.WithKeys("up", "k", "left", "h"), key.WithHelp("↑", "previous")),
	Down:     key.NewBinding(key.WithKeys("down", "j", "right", "l"), key.WithHelp("↓", "next")),
	Explain:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "explain")),
	Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "results")),
	Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	Cancel:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
}

// QuizScreen implements screen.Screen for one quiz attempt and everything
// that follows it until the taker returns to the menu.
type QuizScreen struct {
	deps Deps
	mode session.Mode

	view     session.View
	started  bool
	errMsg   string
	notice   string
	recorded map[string]bool

	confirmEnd bool
	jumping    bool
	jump       components.NumberInput

	reviewPos int

	tick func(sessionID string) tea.Cmd
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ screen.BackInterceptor = (*QuizScreen)(nil)
)

// New creates a QuizScreen that starts mode when initialized.
func New(deps Deps, mode session.Mode) *QuizScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &QuizScreen{
		deps:     deps,
		mode:     mode,
		recorded: make(map[string]bool),
		tick:     tickCmd,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	engine, mode := s.deps.Engine, s.mode
	return func() tea.Msg {
		return startedMsg{Err: engine.Start(context.Background(), mode)}
	}
}

func (s *QuizScreen) Title() string {
	return s.mode.Label()
}

// Status shows the countdown while the quiz is running.
func (s *QuizScreen) Status() string {
	if s.view.Status != session.StatusInProgress {
		return ""
	}
	return renderClock(s.view.Remaining, s.view.Tier)
}

// InterceptsBack keeps Esc from leaving a quiz that has not been closed.
func (s *QuizScreen) InterceptsBack() bool {
	return s.errMsg == "" && s.started
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)

	case tickMsg:
		return s.handleTick(msg)

	case recordedMsg:
		if msg.Err != nil {
			s.deps.Log.Warn().Err(msg.Err).Str("session_id", msg.SessionID).Msg("recording result failed")
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.jumping {
		var cmd tea.Cmd
		s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = describeStartError(msg.Err)
		s.deps.Log.Error().Err(msg.Err).Str("mode", s.mode.Name).Msg("quiz start failed")
		return s, nil
	}
	s.started = true
	s.notice = ""
	s.reviewPos = 0
	s.refresh()
	return s, s.tick(s.view.SessionID)
}

// handleTick drops ticks scheduled by an earlier attempt so that quick
// restarts keep a single tick chain.
func (s *QuizScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if s.view.Status != session.StatusInProgress || msg.SessionID != s.view.SessionID {
		return s, nil
	}
	s.deps.Engine.Tick(msg.At)
	cmd := s.refresh()
	if s.view.Status == session.StatusInProgress {
		return s, s.tick(s.view.SessionID)
	}
	return s, cmd
}

// refresh takes a new snapshot. When the attempt has just finished it
// returns the command that records the result.
func (s *QuizScreen) refresh() tea.Cmd {
	prev := s.view.Status
	s.view = s.deps.Engine.Snapshot()

	if s.reviewPos >= len(s.view.Entries) {
		s.reviewPos = max(0, len(s.view.Entries)-1)
	}

	if prev == session.StatusInProgress && s.view.Status == session.StatusFinished {
		s.confirmEnd = false
		s.jumping = false
		if s.view.Termination == session.TerminationTimeExpired {
			s.notice = "Time's up! Your answers have been scored."
		} else {
			s.notice = ""
		}
		return s.recordCmd()
	}
	return nil
}

func (s *QuizScreen) recordCmd() tea.Cmd {
	v := s.view
	if s.deps.Results == nil || s.recorded[v.SessionID] {
		return nil
	}
	s.recorded[v.SessionID] = true

	res := store.Result{
		SessionID:   v.SessionID,
		Mode:        v.Mode.Name,
		Total:       v.Stats.Total,
		Correct:     v.Stats.Correct,
		Incorrect:   v.Stats.Incorrect,
		Unanswered:  v.Stats.Unanswered,
		Score:       v.Stats.Score,
		MaxScore:    v.Stats.MaxScore,
		Passed:      v.Stats.Passed,
		Termination: v.Termination.String(),
		StartedAt:   v.StartedAt,
		FinishedAt:  v.FinishedAt,
	}
	results := s.deps.Results
	return func() tea.Msg {
		return recordedMsg{SessionID: res.SessionID, Err: results.Append(context.Background(), res)}
	}
}

// apply runs an engine intent and refreshes the view. Expected rejections
// become a notice instead of an error screen.
func (s *QuizScreen) apply(intent func() error) tea.Cmd {
	err := intent()
	cmd := s.refresh()

	var oor *session.IndexOutOfRangeError
	switch {
	case err == nil:
	case errors.Is(err, session.ErrTimeExpired):
		// refresh already announced the expiry.
	case errors.Is(err, session.ErrInvalidSelection):
		s.notice = "That option does not exist for this question."
	case errors.As(err, &oor):
		s.notice = fmt.Sprintf("There is no question %d.", oor.Index+1)
	default:
		s.deps.Log.Warn().Err(err).Str("session_id", s.view.SessionID).Msg("intent rejected")
		s.notice = err.Error()
	}
	return cmd
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	// Error state: any key goes back.
	if s.errMsg != "" {
		return s, router.Pop
	}
	if !s.started {
		return s, nil
	}

	// Expire before acting on a key so a late intent sees the deadline.
	if s.view.Status == session.StatusInProgress {
		s.deps.Engine.Tick(s.deps.Now())
		if cmd := s.refresh(); cmd != nil {
			return s, cmd
		}
	}

	switch s.view.Status {
	case session.StatusInProgress:
		return s.handleQuizKey(msg)
	case session.StatusFinished:
		return s.handleResultsKey(msg)
	case session.StatusReviewing:
		return s.handleReviewKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleQuizKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	e := s.deps.Engine

	if s.confirmEnd {
		switch {
		case key.Matches(msg, keys.Confirm):
			s.confirmEnd = false
			return s, s.apply(e.EndQuiz)
		case key.Matches(msg, keys.Cancel):
			s.confirmEnd = false
		}
		return s, nil
	}

	if s.jumping {
		switch msg.String() {
		case "esc":
			s.jumping = false
			return s, nil
		case "enter":
			n, ok := s.jump.Value()
			if !ok {
				return s, nil
			}
			s.jumping = false
			s.notice = ""
			return s, s.apply(func() error { return e.GoTo(n - 1) })
		}
		var cmd tea.Cmd
		s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}

	// Navigation keys win over option letters; options such as H stay
	// reachable through their number.
	s.notice = ""
	switch {
	case msg.String() == "esc", key.Matches(msg, keys.End):
		s.confirmEnd = true
		return s, nil
	case key.Matches(msg, keys.Next):
		return s, s.apply(e.Next)
	case key.Matches(msg, keys.Previous):
		return s, s.apply(e.Previous)
	case key.Matches(msg, keys.Jump):
		s.jumping = true
		s.jump = components.NewNumberInput(fmt.Sprintf("1-%d", len(s.view.Questions)), 1, len(s.view.Questions))
		return s, s.jump.Init()
	}

	if l, ok := s.optionFor(msg); ok {
		cmd := s.apply(func() error { return e.SelectAnswer(l) })
		if s.view.Status == session.StatusInProgress && s.view.CurrentAnswer().Letter() == l {
			s.notice = fmt.Sprintf("Answer saved: %s", l)
		}
		return s, cmd
	}
	return s, nil
}

// optionFor maps a key to an option of the current question: either its
// letter, in any case, or its 1-based position.
func (s *QuizScreen) optionFor(msg tea.KeyMsg) (bank.Letter, bool) {
	q, ok := s.view.Current()
	if !ok {
		return "", false
	}
	k := msg.String()
	if len([]rune(k)) != 1 {
		return "", false
	}
	if k[0] >= '1' && k[0] <= '9' {
		i := int(k[0] - '1')
		if i < len(q.Options) {
			return q.Options[i].Letter, true
		}
		return "", false
	}
	if q.HasOption(bank.Letter(k)) {
		return bank.Letter(k), true
	}
	for _, opt := range q.Options {
		if strings.EqualFold(string(opt.Letter), k) {
			return opt.Letter, true
		}
	}
	return "", false
}

func (s *QuizScreen) handleResultsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	e := s.deps.Engine
	switch {
	case key.Matches(msg, keys.Review):
		s.notice = ""
		s.reviewPos = 0
		return s, s.apply(e.StartReview)
	case key.Matches(msg, keys.NewQuiz):
		return s, s.newQuiz()
	case key.Matches(msg, keys.Menu), msg.String() == "esc":
		return s, s.toMenu()
	}
	return s, nil
}

func (s *QuizScreen) handleReviewKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	e := s.deps.Engine
	switch {
	case key.Matches(msg, keys.Filter), msg.String() == "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(session.ReviewFilters) - 1
		}
		next := session.ReviewFilters[(int(s.view.Filter)+step)%len(session.ReviewFilters)]
		s.reviewPos = 0
		return s, s.apply(func() error { return e.SetReviewFilter(next) })
	case key.Matches(msg, keys.Up):
		if s.reviewPos > 0 {
			s.reviewPos--
		}
	case key.Matches(msg, keys.Down):
		if s.reviewPos < len(s.view.Entries)-1 {
			s.reviewPos++
		}
	case key.Matches(msg, keys.Explain):
		return s, s.explain()
	case key.Matches(msg, keys.Back):
		return s, s.apply(e.ExitReview)
	case key.Matches(msg, keys.NewQuiz):
		return s, s.newQuiz()
	case key.Matches(msg, keys.Menu):
		return s, s.toMenu()
	}
	return s, nil
}

func (s *QuizScreen) explain() tea.Cmd {
	if !s.deps.Explainer.Enabled() || len(s.view.Entries) == 0 {
		return nil
	}
	entry := s.view.Entries[s.reviewPos]
	return router.Push(NewExplainScreen(s.deps.Explainer, entry))
}

func (s *QuizScreen) newQuiz() tea.Cmd {
	s.started = false
	s.notice = ""
	engine := s.deps.Engine
	return func() tea.Msg {
		return startedMsg{Err: engine.NewQuiz(context.Background())}
	}
}

func (s *QuizScreen) toMenu() tea.Cmd {
	if err := s.deps.Engine.ReturnToMenu(); err != nil {
		s.deps.Log.Warn().Err(err).Msg("return to menu")
	}
	s.view = s.deps.Engine.Snapshot()
	s.started = false
	return router.PopToRoot
}

func tickCmd(sessionID string) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{SessionID: sessionID, At: t}
	})
}

func describeStartError(err error) string {
	var short *session.InsufficientQuestionsError
	var unavailable *bank.UnavailableError
	switch {
	case errors.As(err, &short):
		return "Not enough questions: " + short.Error()
	case errors.As(err, &unavailable):
		return "Question bank unavailable: " + unavailable.Error()
	}
	return err.Error()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" || !s.started {
		return nil
	}
	switch s.view.Status {
	case session.StatusInProgress:
		if s.confirmEnd {
			return []layout.KeyHint{
				{Key: "Y", Description: "End quiz"},
				{Key: "N", Description: "Keep going"},
			}
		}
		if s.jumping {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Go"},
				{Key: "Esc", Description: "Cancel"},
			}
		}
		return []layout.KeyHint{
			{Key: s.letterRange(), Description: "Answer"},
			{Key: "←→", Description: "Navigate"},
			{Key: "G", Description: "Go to"},
			{Key: "Esc", Description: "End quiz"},
		}
	case session.StatusFinished:
		return []layout.KeyHint{
			{Key: "R", Description: "Review"},
			{Key: "N", Description: "New quiz"},
			{Key: "M", Description: "Menu"},
		}
	case session.StatusReviewing:
		hints := []layout.KeyHint{
			{Key: "Tab", Description: "Filter"},
			{Key: "↑↓", Description: "Browse"},
		}
		if s.deps.Explainer.Enabled() {
			hints = append(hints, layout.KeyHint{Key: "X", Description: "Explain"})
		}
		return append(hints,
			layout.KeyHint{Key: "Esc", Description: "Results"},
			layout.KeyHint{Key: "N", Description: "New quiz"},
			layout.KeyHint{Key: "M", Description: "Menu"},
		)
	}
	return nil
}

func (s *QuizScreen) letterRange() string {
	q, ok := s.view.Current()
	if !ok || len(q.Options) == 0 {
		return "A-D"
	}
	first, last := q.Options[0].Letter, q.Options[len(q.Options)-1].Letter
	return string(first) + "-" + string(last)
}
