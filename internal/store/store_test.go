package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ripasso/internal/bank"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		withPragmas("a.db"))
	assert.Contains(t, withPragmas("file::memory:?cache=shared"), "cache=shared&_pragma=")
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Banks().Import(context.Background(), "cardio", cardioFile()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	qs, err := s.Banks().Bank(context.Background(), "cardio")
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func cardioFile() *bank.File {
	data := []byte(`{
		"version": "v1.0.0",
		"title": "Cardiology",
		"questions": [
			{"id": "af", "question": "First-line rate control in AF?", "options": {"C": "Digoxin", "A": "Beta blocker", "B": "Amiodarone"}, "correct": ["A"]},
			{"question": "Signs of tamponade?", "options": {"A": "Hypotension", "B": "Muffled heart sounds", "C": "Bradycardia"}, "correct": ["A", "B"], "explanation": "Beck's triad."}
		]
	}`)
	f, err := bank.Parse("cardio", data)
	if err != nil {
		panic(err)
	}
	return f
}

func TestBankImportAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.Banks()
	ctx := context.Background()

	_, err := repo.Bank(ctx, "cardio")
	assert.ErrorIs(t, err, bank.ErrNotFound)

	f := cardioFile()
	require.NoError(t, repo.Import(ctx, "cardio", f))

	qs, err := repo.Bank(ctx, "cardio")
	require.NoError(t, err)
	assert.Equal(t, f.Questions, qs)
	assert.Equal(t, []bank.Letter{"C", "A", "B"}, qs[0].Letters())
	assert.Equal(t, "Beck's triad.", qs[1].Explanation)

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bank.Info{{Name: "cardio", Title: "Cardiology", Count: 2, Origin: Origin}}, infos)
}

func TestBankReimportReplaces(t *testing.T) {
	s := openTestStore(t)
	repo := s.Banks()
	ctx := context.Background()

	require.NoError(t, repo.Import(ctx, "cardio", cardioFile()))

	smaller := cardioFile()
	smaller.Questions = smaller.Questions[:1]
	smaller.Title = "Cardio v2"
	require.NoError(t, repo.Import(ctx, "cardio", smaller))

	qs, err := repo.Bank(ctx, "cardio")
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Cardio v2", infos[0].Title)
	assert.Equal(t, 1, infos[0].Count)
}

func TestBankDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Banks()
	ctx := context.Background()

	assert.ErrorIs(t, repo.Delete(ctx, "cardio"), bank.ErrNotFound)

	require.NoError(t, repo.Import(ctx, "cardio", cardioFile()))
	require.NoError(t, repo.Delete(ctx, "cardio"))

	_, err := repo.Bank(ctx, "cardio")
	assert.ErrorIs(t, err, bank.ErrNotFound)

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM questions").Scan(&n))
	assert.Zero(t, n)
}

func TestBankRepoInChain(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Banks().Import(ctx, "cardio", cardioFile()))

	src := bank.Chain{bank.Builtin(), s.Banks()}
	qs, err := src.Bank(ctx, "cardio")
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	infos, err := src.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "cardio")
	assert.Contains(t, names, "general")
}

func TestBankImportRejectsBadName(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Banks().Import(context.Background(), "../etc", cardioFile()))
}

func TestExplanationCache(t *testing.T) {
	s := openTestStore(t)
	repo := s.Explanations()
	ctx := context.Background()

	e, err := repo.Get(ctx, "cardio/af")
	require.NoError(t, err)
	assert.Nil(t, e)

	require.NoError(t, repo.Put(ctx, &Explanation{
		QuestionID: "cardio/af",
		Model:      "mock",
		Content:    json.RawMessage(`{"summary":"first"}`),
	}))
	require.NoError(t, repo.Put(ctx, &Explanation{
		QuestionID: "cardio/af",
		Model:      "mock",
		Content:    json.RawMessage(`{"summary":"second"}`),
	}))

	e, err = repo.Get(ctx, "cardio/af")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.JSONEq(t, `{"summary":"second"}`, string(e.Content))
	assert.False(t, e.CreatedAt.IsZero())
}

func TestResults(t *testing.T) {
	s := openTestStore(t)
	repo := s.Results()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	results := []Result{
		{SessionID: "s1", Mode: "quick", Total: 10, Correct: 7, Score: 70, MaxScore: 100, Passed: true, Termination: "user ended", StartedAt: base, FinishedAt: base.Add(5 * time.Minute)},
		{SessionID: "s2", Mode: "mixed", Total: 10, Correct: 3, Incorrect: 5, Unanswered: 2, Score: 30, MaxScore: 100, Termination: "time expired", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(75 * time.Minute)},
		{SessionID: "s3", Mode: "quick", Total: 10, Correct: 9, Score: 90, MaxScore: 100, Passed: true, Termination: "user ended", StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(130 * time.Minute)},
	}
	for _, r := range results {
		require.NoError(t, repo.Append(ctx, r))
	}
	// Recording the same session twice keeps the first row.
	dup := results[0]
	dup.Score = 0
	require.NoError(t, repo.Append(ctx, dup))

	recent, err := repo.Recent(ctx, ResultQuery{})
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "s3", recent[0].SessionID)
	assert.Equal(t, "s1", recent[2].SessionID)
	assert.Equal(t, 70, recent[2].Score)
	assert.True(t, recent[2].FinishedAt.Equal(base.Add(5*time.Minute)))
	assert.Equal(t, 2, recent[1].Unanswered)
	assert.False(t, recent[1].Passed)

	quick, err := repo.Recent(ctx, ResultQuery{Mode: "quick", Limit: 1})
	require.NoError(t, err)
	require.Len(t, quick, 1)
	assert.Equal(t, "s3", quick[0].SessionID)

	sums, err := repo.Summaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ModeSummary{
		{Mode: "mixed", Attempts: 1, Passed: 0, BestScore: 30, MaxScore: 100},
		{Mode: "quick", Attempts: 2, Passed: 2, BestScore: 90, MaxScore: 100},
	}, sums)
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.Results().Append(ctx, Result{SessionID: "a", Mode: "quick", StartedAt: now, FinishedAt: now}))
	require.NoError(t, s.Results().Append(ctx, Result{SessionID: "b", Mode: "quick", StartedAt: now, FinishedAt: now}))
	require.NoError(t, s.Explanations().Put(ctx, &Explanation{QuestionID: "q", Model: "mock", Content: json.RawMessage(`{}`)}))

	n, err := s.Results().Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	recent, err := s.Results().Recent(ctx, ResultQuery{})
	require.NoError(t, err)
	assert.Empty(t, recent)

	n, err = s.Explanations().Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Results().Clear(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
