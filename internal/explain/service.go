// Package explain generates AI explanations of reviewed questions.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abhisek/ripasso/internal/bank"
	"github.com/abhisek/ripasso/internal/llm"
	"github.com/abhisek/ripasso/internal/store"
)

// ErrDisabled is returned by a Service without a provider.
var ErrDisabled = errors.New("explanations are not configured")

// Explanation is the generated reasoning for one question.
type Explanation struct {
	QuestionID  string       `json:"-"`
	Summary     string       `json:"summary"`
	WhyCorrect  string       `json:"why_correct"`
	Distractors []Distractor `json:"distractors"`
}

// Distractor explains why one wrong option is wrong.
type Distractor struct {
	Letter bank.Letter `json:"letter"`
	Reason string      `json:"reason"`
}

// Cache persists explanations across runs.
type Cache interface {
	Get(ctx context.Context, questionID string) (*store.Explanation, error)
	Put(ctx context.Context, e *store.Explanation) error
}

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns defaults for explanation generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.2,
	}
}

// Service explains questions, caching results by question ID in memory and
// optionally in a persistent Cache.
type Service struct {
	provider llm.Provider
	cache    Cache
	cfg      Config
	log      zerolog.Logger

	mu  sync.Mutex
	mem map[string]*Explanation
}

// NewService creates a Service. provider may be nil, in which case Explain
// returns ErrDisabled. cache may be nil.
func NewService(provider llm.Provider, cache Cache, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		log:      log.With().Str("component", "explain").Logger(),
		mem:      make(map[string]*Explanation),
	}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Explain returns the explanation of q, generating it on the first request.
// Cache failures are logged and do not fail the call.
func (s *Service) Explain(ctx context.Context, q bank.Question) (*Explanation, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	s.mu.Lock()
	e, ok := s.mem[q.ID]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	if e := s.fromCache(ctx, q.ID); e != nil {
		s.remember(e)
		return e, nil
	}

	e, model, raw, err := s.generate(ctx, q)
	if err != nil {
		return nil, err
	}
	s.remember(e)

	if s.cache != nil {
		err := s.cache.Put(ctx, &store.Explanation{QuestionID: q.ID, Model: model, Content: raw})
		if err != nil {
			s.log.Warn().Err(err).Str("question_id", q.ID).Msg("caching explanation failed")
		}
	}
	return e, nil
}

func (s *Service) remember(e *Explanation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[e.QuestionID] = e
}

func (s *Service) fromCache(ctx context.Context, id string) *Explanation {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("question_id", id).Msg("reading cached explanation failed")
		return nil
	}
	if cached == nil {
		return nil
	}
	var e Explanation
	if err := json.Unmarshal(cached.Content, &e); err != nil {
		s.log.Warn().Err(err).Str("question_id", id).Msg("discarding unreadable cached explanation")
		return nil
	}
	e.QuestionID = id
	return &e
}

func (s *Service) generate(ctx context.Context, q bank.Question) (*Explanation, string, json.RawMessage, error) {
	ctx = llm.WithPurpose(ctx, "explain")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(q)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, "", nil, fmt.Errorf("explanation generation: %w", err)
	}

	var e Explanation
	if err := json.Unmarshal(resp.Content, &e); err != nil {
		return nil, "", nil, fmt.Errorf("parse explanation response: %w", err)
	}
	e.QuestionID = q.ID
	return &e, resp.Model, resp.Content, nil
}
