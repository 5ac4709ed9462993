package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/ripasso/internal/bank"
)

// Engine owns at most one Session and applies intents to it one at a time.
// All methods are safe for concurrent use; concurrent SelectAnswer calls on
// the same question keep whichever acquires the lock last.
type Engine struct {
	mu sync.Mutex

	src   bank.Source
	now   func() time.Time
	rng   *rand.Rand
	log   zerolog.Logger
	newID func() string

	status Status
	sess   *Session
	filter ReviewFilter
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand sets the random source used for sampling.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// NewEngine creates an engine in the NotStarted state.
func NewEngine(src bank.Source, opts ...Option) *Engine {
	e := &Engine{
		src:   src,
		now:   time.Now,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:   zerolog.Nop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("component", "engine").Logger()
	return e
}

// Status returns the current lifecycle state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Start loads the mode's banks, samples the question set, and begins the
// countdown. Starting from Finished or Reviewing discards the previous
// attempt first. On error the engine is left NotStarted.
func (e *Engine) Start(ctx context.Context, mode Mode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusInProgress {
		return &TransitionError{Intent: "start", Status: e.status}
	}
	e.resetLocked()
	return e.startLocked(ctx, mode)
}

func (e *Engine) startLocked(ctx context.Context, mode Mode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	banks := make(map[string][]bank.Question, len(mode.Banks))
	for _, name := range mode.Banks {
		qs, err := e.src.Bank(ctx, name)
		if err != nil {
			e.log.Warn().Err(err).Str("mode", mode.Name).Str("bank", name).Msg("bank unavailable")
			return err
		}
		banks[name] = qs
	}

	questions, err := Sample(banks, mode, e.rng)
	if err != nil {
		e.log.Warn().Err(err).Str("mode", mode.Name).Msg("sampling failed")
		return err
	}

	e.sess = newSession(e.newID(), mode, questions, e.now())
	e.status = StatusInProgress
	e.filter = FilterAll

	e.log.Info().
		Str("session_id", e.sess.ID).
		Str("mode", mode.Name).
		Int("questions", len(questions)).
		Dur("budget", mode.Duration).
		Msg("quiz started")
	return nil
}

func (e *Engine) resetLocked() {
	if e.sess != nil {
		e.log.Debug().Str("session_id", e.sess.ID).Msg("session discarded")
	}
	e.sess = nil
	e.status = StatusNotStarted
	e.filter = FilterAll
}

// guard rejects intents not allowed in the current status.
func (e *Engine) guard(intent string, allowed ...Status) error {
	for _, s := range allowed {
		if e.status == s {
			return nil
		}
	}
	return &TransitionError{Intent: intent, Status: e.status}
}

// expireLocked ends the attempt when the countdown has reached zero at now.
// It reports whether the session is (now) time-expired.
func (e *Engine) expireLocked(now time.Time) bool {
	if e.status != StatusInProgress {
		return false
	}
	if Remaining(now, e.sess.StartedAt, e.sess.Budget) > 0 {
		return false
	}
	e.finishLocked(TerminationTimeExpired, now)
	return true
}

// activeLocked is the common prologue of answer and navigation intents.
func (e *Engine) activeLocked(intent string) error {
	if err := e.guard(intent, StatusInProgress); err != nil {
		return err
	}
	if e.expireLocked(e.now()) {
		return ErrTimeExpired
	}
	return nil
}

func (e *Engine) finishLocked(reason Termination, now time.Time) {
	if !e.sess.finish(reason, now) {
		return
	}
	e.status = StatusFinished
	e.log.Info().
		Str("session_id", e.sess.ID).
		Str("mode", e.sess.Mode.Name).
		Stringer("termination", reason).
		Int("score", e.sess.Score).
		Int("max_score", MaxScore(len(e.sess.Questions))).
		Msg("quiz finished")
}

// SelectAnswer records letter for the current question, replacing any
// earlier answer. A letter that is not an option returns
// ErrInvalidSelection and changes nothing.
func (e *Engine) SelectAnswer(letter bank.Letter) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.activeLocked("select answer"); err != nil {
		return err
	}
	q := e.sess.Questions[e.sess.Cursor]
	if !q.HasOption(letter) {
		return fmt.Errorf("%w: %q is not an option of question %d", ErrInvalidSelection, letter, e.sess.Cursor+1)
	}
	e.sess.Answers[e.sess.Cursor] = Selected(letter)
	e.log.Debug().Str("session_id", e.sess.ID).Int("index", e.sess.Cursor).Str("letter", string(letter)).Msg("answer selected")
	return nil
}

// GoTo moves the cursor to index. Out-of-range indexes leave it unchanged.
func (e *Engine) GoTo(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.activeLocked("go to"); err != nil {
		return err
	}
	if index < 0 || index >= len(e.sess.Questions) {
		return &IndexOutOfRangeError{Index: index, Len: len(e.sess.Questions)}
	}
	e.sess.Cursor = index
	return nil
}

// Next advances the cursor; it does nothing on the last question.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.activeLocked("next"); err != nil {
		return err
	}
	if e.sess.Cursor < len(e.sess.Questions)-1 {
		e.sess.Cursor++
	}
	return nil
}

// Previous moves the cursor back; it does nothing on the first question.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.activeLocked("previous"); err != nil {
		return err
	}
	if e.sess.Cursor > 0 {
		e.sess.Cursor--
	}
	return nil
}

// EndQuiz terminates the attempt at the taker's request and scores it.
func (e *Engine) EndQuiz() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.activeLocked("end quiz"); err != nil {
		return err
	}
	e.finishLocked(TerminationUserEnded, e.now())
	return nil
}

// Tick evaluates the countdown at now and ends the attempt once it reaches
// zero. It is idempotent and does nothing outside InProgress.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.expireLocked(now)
}

// StartReview enters review of the finished attempt with the All filter.
func (e *Engine) StartReview() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard("start review", StatusFinished); err != nil {
		return err
	}
	e.status = StatusReviewing
	e.filter = FilterAll
	return nil
}

// SetReviewFilter changes which questions the review lists.
func (e *Engine) SetReviewFilter(f ReviewFilter) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard("set review filter", StatusReviewing); err != nil {
		return err
	}
	if f < FilterAll || f > FilterUnanswered {
		return fmt.Errorf("unknown review filter %d", f)
	}
	e.filter = f
	return nil
}

// ExitReview returns to the results of the finished attempt.
func (e *Engine) ExitReview() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard("exit review", StatusReviewing); err != nil {
		return err
	}
	e.status = StatusFinished
	return nil
}

// NewQuiz discards the finished attempt and starts another with the same mode.
func (e *Engine) NewQuiz(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard("new quiz", StatusFinished, StatusReviewing); err != nil {
		return err
	}
	mode := e.sess.Mode
	e.resetLocked()
	return e.startLocked(ctx, mode)
}

// ReturnToMenu discards the finished attempt.
func (e *Engine) ReturnToMenu() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard("return to menu", StatusFinished, StatusReviewing); err != nil {
		return err
	}
	e.resetLocked()
	return nil
}

// Snapshot returns an immutable observation of the engine at the current
// clock reading. It never changes state.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.viewLocked(e.now())
}
