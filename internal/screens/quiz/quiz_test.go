package quiz

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ripasso/internal/bank"
	"github.com/abhisek/ripasso/internal/explain"
	"github.com/abhisek/ripasso/internal/llm"
	"github.com/abhisek/ripasso/internal/router"
	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/store"
)

const cardioBank = `[
	{"question": "First-line rate control in AF?", "options": {"A": "Beta blocker", "B": "Amiodarone", "C": "Adenosine"}, "correct": ["A"]},
	{"question": "Beck's triad includes?", "options": {"A": "Hypertension", "B": "Muffled heart sounds", "C": "Bradycardia"}, "correct": ["B"]},
	{"question": "Drug for SVT termination?", "options": {"A": "Digoxin", "B": "Warfarin", "C": "Adenosine"}, "correct": ["C"], "explanation": "Transient AV block."}
]`

var cardioMode = session.Mode{
	Name:          "cardio",
	Title:         "Cardiology",
	Kind:          session.KindFull,
	Banks:         []string{"cardio"},
	Duration:      time.Minute,
	PassThreshold: 0.6,
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type memRecorder struct {
	results []store.Result
}

func (m *memRecorder) Append(_ context.Context, r store.Result) error {
	m.results = append(m.results, r)
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

type harness struct {
	screen   *QuizScreen
	engine   *session.Engine
	clock    *clock
	recorder *memRecorder
}

func newHarness(t *testing.T, explainer *explain.Service) *harness {
	t.Helper()
	return newBankHarness(t, cardioBank, explainer)
}

// newBankHarness runs cardioMode over the given contents of cardio.json.
func newBankHarness(t *testing.T, data string, explainer *explain.Service) *harness {
	t.Helper()
	src := bank.NewFSSource(fstest.MapFS{"cardio.json": {Data: []byte(data)}}, "test")
	c := &clock{t: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)}
	engine := session.NewEngine(src, session.WithClock(c.Now))
	rec := &memRecorder{}

	s := New(Deps{
		Engine:    engine,
		Results:   rec,
		Explainer: explainer,
		Log:       zerolog.Nop(),
		Now:       c.Now,
	}, cardioMode)

	s.tick = func(string) tea.Cmd { return nil }

	h := &harness{screen: s, engine: engine, clock: c, recorder: rec}
	h.run(s.Init())
	require.Equal(t, session.StatusInProgress, s.view.Status)
	return h
}

// send delivers msg and runs the resulting commands until none remain.
// Router messages are returned to the caller. Ticks are disabled; tests
// drive time explicitly.
func (h *harness) send(msg tea.Msg) []tea.Msg {
	_, cmd := h.screen.Update(msg)
	return h.run(cmd)
}

func (h *harness) run(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for cmd != nil {
		msg := cmd()
		cmd = nil
		switch msg := msg.(type) {
		case startedMsg, recordedMsg:
			_, cmd = h.screen.Update(msg)
		case nil:
		default:
			out = append(out, msg)
		}
	}
	return out
}

func TestQuizAnswerAndNavigate(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen

	assert.Contains(t, s.View(100, 30), "Question 1 of 3")
	assert.Equal(t, "Cardiology", s.Title())
	assert.Contains(t, s.Status(), "1:00")

	h.send(keyPress('a'))
	assert.Equal(t, bank.Letter("A"), s.view.CurrentAnswer().Letter())
	assert.Contains(t, s.View(100, 30), "Answer saved: A")

	h.send(keyPress('z'))
	assert.Equal(t, bank.Letter("A"), s.view.CurrentAnswer().Letter(), "unknown letter is ignored")

	h.send(specialKey(tea.KeyRight))
	assert.Equal(t, 1, s.view.Cursor)

	h.send(keyPress('2'))
	assert.Equal(t, bank.Letter("B"), s.view.CurrentAnswer().Letter())

	h.send(specialKey(tea.KeyLeft))
	assert.Equal(t, 0, s.view.Cursor)
	assert.Equal(t, bank.Letter("A"), s.view.CurrentAnswer().Letter())
}

func TestQuizJumpTo(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen

	h.send(keyPress('g'))
	assert.True(t, s.jumping)
	h.send(keyPress('9'))
	h.send(specialKey(tea.KeyEnter))
	assert.True(t, s.jumping, "out of range input keeps the prompt open")
	assert.Contains(t, s.View(100, 30), "enter 1-3")

	s.jump.Model.SetValue("3")
	h.send(specialKey(tea.KeyEnter))
	assert.False(t, s.jumping)
	assert.Equal(t, 2, s.view.Cursor)

	h.send(keyPress('g'))
	h.send(specialKey(tea.KeyEscape))
	assert.False(t, s.jumping)
	assert.Equal(t, session.StatusInProgress, s.view.Status, "esc only closes the prompt")
}

func TestQuizEndConfirm(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen
	assert.True(t, s.InterceptsBack())

	h.send(keyPress('a'))
	h.send(specialKey(tea.KeyEscape))
	assert.True(t, s.confirmEnd)
	assert.Contains(t, s.View(100, 30), "2 question(s) are still unanswered")

	h.send(keyPress('n'))
	assert.False(t, s.confirmEnd)
	assert.Equal(t, session.StatusInProgress, s.view.Status)

	h.send(specialKey(tea.KeyEscape))
	h.send(keyPress('y'))
	require.Equal(t, session.StatusFinished, s.view.Status)
	assert.Equal(t, session.TerminationUserEnded, s.view.Termination)

	require.Len(t, h.recorder.results, 1)
	res := h.recorder.results[0]
	assert.Equal(t, s.view.SessionID, res.SessionID)
	assert.Equal(t, "cardio", res.Mode)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 2, res.Unanswered)
	assert.Equal(t, 10, res.Score)
	assert.Equal(t, 30, res.MaxScore)
	assert.False(t, res.Passed)
	assert.Equal(t, "ended by user", res.Termination)

	view := s.View(100, 30)
	assert.Contains(t, view, "Quiz complete")
	assert.Contains(t, view, "FAILED")
	assert.Contains(t, view, "10 / 30")
	assert.Empty(t, s.Status())
}

func TestQuizTimeExpires(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen

	h.clock.Advance(45 * time.Second)
	h.send(tickMsg{SessionID: s.view.SessionID, At: h.clock.Now()})
	assert.Equal(t, session.TierWarning, s.view.Tier)

	h.clock.Advance(15 * time.Second)
	h.send(tickMsg{SessionID: s.view.SessionID, At: h.clock.Now()})
	require.Equal(t, session.StatusFinished, s.view.Status)
	assert.Equal(t, session.TerminationTimeExpired, s.view.Termination)
	assert.Contains(t, s.View(100, 30), "Time's up!")
	require.Len(t, h.recorder.results, 1)
	assert.Equal(t, "time expired", h.recorder.results[0].Termination)

	// Another tick after the end is ignored and records nothing new.
	h.send(tickMsg{SessionID: s.view.SessionID, At: h.clock.Now()})
	assert.Len(t, h.recorder.results, 1)
}

func TestQuizLateKeyIsNotApplied(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen

	h.clock.Advance(2 * time.Minute)
	h.send(keyPress('a'))

	require.Equal(t, session.StatusFinished, s.view.Status)
	assert.False(t, s.view.Answers[0].Answered())
	assert.Len(t, h.recorder.results, 1)
}

func TestQuizReviewFlow(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen

	h.send(keyPress('a'))             // correct
	h.send(specialKey(tea.KeyRight))  // next
	h.send(keyPress('a'))             // wrong
	h.send(specialKey(tea.KeyEscape)) // end
	h.send(keyPress('y'))

	h.send(keyPress('r'))
	require.Equal(t, session.StatusReviewing, s.view.Status)
	assert.Len(t, s.view.Entries, 3)
	view := s.View(100, 40)
	assert.Contains(t, view, "All (3)")
	assert.Contains(t, view, "Correct (1)")

	h.send(specialKey(tea.KeyTab))
	assert.Equal(t, session.FilterCorrect, s.view.Filter)
	h.send(specialKey(tea.KeyTab))
	assert.Equal(t, session.FilterIncorrect, s.view.Filter)
	require.Len(t, s.view.Entries, 1)
	view = s.View(100, 40)
	assert.Contains(t, view, "Question 2")
	assert.Contains(t, view, "A) Hypertension")
	assert.Contains(t, view, "B) Muffled heart sounds")

	h.send(specialKey(tea.KeyTab))
	assert.Equal(t, session.FilterUnanswered, s.view.Filter)
	assert.Contains(t, s.View(100, 40), "no answer given")
	assert.Contains(t, s.View(100, 40), "Transient AV block.")

	h.send(specialKey(tea.KeyEscape))
	assert.Equal(t, session.StatusFinished, s.view.Status)

	out := h.send(keyPress('m'))
	assert.Equal(t, []tea.Msg{router.PopToRootMsg{}}, out)
	assert.Equal(t, session.StatusNotStarted, h.engine.Status())
}

func TestQuizNewQuizFromReview(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen
	first := s.view.SessionID

	h.send(specialKey(tea.KeyEscape))
	h.send(keyPress('y'))
	h.send(keyPress('r'))
	h.send(keyPress('n'))

	require.Equal(t, session.StatusInProgress, s.view.Status)
	assert.NotEqual(t, first, s.view.SessionID)
	assert.Zero(t, s.view.AnsweredCount())
}

const explanationJSON = `{
	"summary": "Beta blockers slow AV conduction.",
	"why_correct": "They are first line for rate control.",
	"distractors": [{"letter": "B", "reason": "Amiodarone is for rhythm control."}]
}`

func TestQuizExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(explanationJSON)})
	h := newHarness(t, explain.NewService(mock, nil, explain.DefaultConfig(), zerolog.Nop()))
	s := h.screen

	h.send(keyPress('b'))
	h.send(specialKey(tea.KeyEscape))
	h.send(keyPress('y'))
	h.send(keyPress('r'))
	assert.Contains(t, s.View(100, 40), "[X]")

	out := h.send(keyPress('x'))
	require.Len(t, out, 1)
	push, ok := out[0].(router.PushScreenMsg)
	require.True(t, ok)
	ex := push.Screen.(*ExplainScreen)
	assert.Contains(t, ex.View(100, 40), "Asking the tutor")

	ex.Update(ex.Init()())
	view := ex.View(100, 40)
	assert.Contains(t, view, "Beta blockers slow AV conduction.")
	assert.Contains(t, view, "Amiodarone is for rhythm control.")
	assert.Equal(t, "Explanation · Question 1", ex.Title())
}

func TestQuizExplainHiddenWithoutProvider(t *testing.T) {
	h := newHarness(t, nil)
	h.send(specialKey(tea.KeyEscape))
	h.send(keyPress('y'))
	h.send(keyPress('r'))

	assert.NotContains(t, h.screen.View(100, 40), "[X]")
	assert.Empty(t, h.send(keyPress('x')))
}

func TestQuizStartError(t *testing.T) {
	src := bank.NewFSSource(fstest.MapFS{}, "test")
	s := New(Deps{Engine: session.NewEngine(src), Log: zerolog.Nop()}, cardioMode)

	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "Question bank unavailable")
	assert.False(t, s.InterceptsBack())

	_, cmd := s.Update(keyPress('a'))
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestQuizTickFromEarlierAttemptIsDropped(t *testing.T) {
	h := newHarness(t, nil)
	s := h.screen

	var scheduled []string
	s.tick = func(id string) tea.Cmd {
		scheduled = append(scheduled, id)
		return nil
	}

	first := s.view.SessionID
	h.send(specialKey(tea.KeyEscape))
	h.send(keyPress('y'))
	h.send(keyPress('n'))
	require.Equal(t, session.StatusInProgress, s.view.Status)
	second := s.view.SessionID
	require.NotEqual(t, first, second)
	assert.Equal(t, []string{second}, scheduled)

	_, cmd := s.Update(tickMsg{SessionID: first, At: h.clock.Now()})
	assert.Nil(t, cmd)
	assert.Equal(t, []string{second}, scheduled, "a stale tick starts no second chain")

	h.send(tickMsg{SessionID: second, At: h.clock.Now()})
	assert.Equal(t, []string{second, second}, scheduled)
}

const wideBank = `[
	{"question": "Which vitamin deficiency causes scurvy?", "options": {"A": "A", "B": "B1", "C": "B12", "D": "C", "E": "D", "F": "E", "G": "K", "H": "Folate"}, "correct": ["D"]},
	{"question": "Which hormone raises blood calcium?", "options": {"A": "Calcitonin", "B": "PTH", "C": "Insulin", "D": "Glucagon", "E": "Cortisol", "F": "TSH", "G": "GH", "H": "ADH"}, "correct": ["B"]}
]`

func TestQuizNavigationKeysWinOverOptionLetters(t *testing.T) {
	h := newBankHarness(t, wideBank, nil)
	s := h.screen

	h.send(keyPress('l'))
	assert.Equal(t, 1, s.view.Cursor, "l moves to the next question")
	assert.False(t, s.view.Answers[0].Answered())

	h.send(keyPress('h'))
	assert.Equal(t, 0, s.view.Cursor, "h moves to the previous question")
	assert.False(t, s.view.Answers[0].Answered())

	h.send(keyPress('g'))
	assert.True(t, s.jumping, "g opens the jump prompt")
	h.send(specialKey(tea.KeyEscape))

	h.send(keyPress('8'))
	assert.Equal(t, bank.Letter("H"), s.view.CurrentAnswer().Letter(), "H is reachable by number")

	h.send(keyPress('D'))
	assert.Equal(t, bank.Letter("D"), s.view.CurrentAnswer().Letter())
}

const lowercaseBank = `[
	{"question": "Most common thyroid cancer?", "options": {"a": "Papillary", "b": "Follicular", "c": "Anaplastic"}, "correct": ["a"]}
]`

func TestQuizLowercaseOptionLetters(t *testing.T) {
	h := newBankHarness(t, lowercaseBank, nil)
	s := h.screen

	h.send(keyPress('B'))
	assert.Equal(t, bank.Letter("b"), s.view.CurrentAnswer().Letter())

	h.send(keyPress('a'))
	assert.Equal(t, bank.Letter("a"), s.view.CurrentAnswer().Letter())
	assert.Contains(t, s.View(100, 30), "Answer saved: a")
}
