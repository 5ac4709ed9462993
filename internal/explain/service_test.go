package explain

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ripasso/internal/bank"
	"github.com/abhisek/ripasso/internal/llm"
	"github.com/abhisek/ripasso/internal/store"
)

func insulinQuestion() bank.Question {
	return bank.Question{
		ID:   "endo/insulin",
		Text: "Which cells secrete insulin?",
		Options: bank.Options{
			{Letter: "A", Text: "Alpha cells"},
			{Letter: "B", Text: "Beta cells"},
			{Letter: "C", Text: "Delta cells"},
		},
		Correct:     []bank.Letter{"B"},
		Explanation: "Islets of Langerhans.",
	}
}

const insulinJSON = `{
	"summary": "Insulin comes from pancreatic beta cells.",
	"why_correct": "Beta cells make up most of the islet and release insulin in response to glucose.",
	"distractors": [
		{"letter": "A", "reason": "Alpha cells secrete glucagon."},
		{"letter": "C", "reason": "Delta cells secrete somatostatin."}
	]
}`

func TestExplain_Generates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insulinJSON)})
	svc := NewService(mock, nil, DefaultConfig(), zerolog.Nop())

	e, err := svc.Explain(context.Background(), insulinQuestion())
	require.NoError(t, err)
	assert.Equal(t, "endo/insulin", e.QuestionID)
	assert.Contains(t, e.Summary, "beta cells")
	require.Len(t, e.Distractors, 2)
	assert.Equal(t, bank.Letter("A"), e.Distractors[0].Letter)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, ExplanationSchema, req.Schema)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "B) Beta cells")
	assert.Contains(t, msg, "Correct: B")
	assert.Contains(t, msg, "Author's note: Islets of Langerhans.")
}

func TestExplain_MemoryCache(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insulinJSON)})
	svc := NewService(mock, nil, DefaultConfig(), zerolog.Nop())

	first, err := svc.Explain(context.Background(), insulinQuestion())
	require.NoError(t, err)
	second, err := svc.Explain(context.Background(), insulinQuestion())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, mock.CallCount())
}

func TestExplain_PersistentCache(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "explain.db"))
	require.NoError(t, err)
	defer st.Close()

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insulinJSON)})
	_, err = NewService(mock, st.Explanations(), DefaultConfig(), zerolog.Nop()).
		Explain(context.Background(), insulinQuestion())
	require.NoError(t, err)

	// A fresh service finds the stored explanation without calling the provider.
	empty := llm.NewMockProvider()
	e, err := NewService(empty, st.Explanations(), DefaultConfig(), zerolog.Nop()).
		Explain(context.Background(), insulinQuestion())
	require.NoError(t, err)
	assert.Equal(t, "Insulin comes from pancreatic beta cells.", e.Summary)
	assert.Zero(t, empty.CallCount())
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*store.Explanation, error) {
	return nil, errors.New("disk on fire")
}

func (failingCache) Put(context.Context, *store.Explanation) error {
	return errors.New("disk on fire")
}

func TestExplain_CacheFailureIsNotFatal(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insulinJSON)})
	var logs strings.Builder
	svc := NewService(mock, failingCache{}, DefaultConfig(), zerolog.New(&logs))

	_, err := svc.Explain(context.Background(), insulinQuestion())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "caching explanation failed")
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	svc := NewService(mock, nil, DefaultConfig(), zerolog.Nop())

	_, err := svc.Explain(context.Background(), insulinQuestion())
	var rl *llm.ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	// Failures are not cached.
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(insulinJSON)})
	_, err = svc.Explain(context.Background(), insulinQuestion())
	assert.NoError(t, err)
}

func TestExplain_Disabled(t *testing.T) {
	svc := NewService(nil, nil, DefaultConfig(), zerolog.Nop())
	assert.False(t, svc.Enabled())
	_, err := svc.Explain(context.Background(), insulinQuestion())
	assert.ErrorIs(t, err, ErrDisabled)

	var nilSvc *Service
	assert.False(t, nilSvc.Enabled())
}
