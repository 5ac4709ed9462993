package bank

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArray = `[
  {"question": "Q1", "options": {"C": "c", "A": "a", "B": "b"}, "correct": ["A"]},
  {"question": "Q2", "options": {"A": "a", "B": "b"}, "correct": ["A", "B"]}
]`

func TestOptionsKeepDocumentOrder(t *testing.T) {
	f, err := Parse("gen", []byte(sampleArray))
	require.NoError(t, err)
	require.Len(t, f.Questions, 2)

	assert.Equal(t, []Letter{"C", "A", "B"}, f.Questions[0].Letters())

	out, err := json.Marshal(f.Questions[0].Options)
	require.NoError(t, err)
	assert.Equal(t, `{"C":"c","A":"a","B":"b"}`, string(out))
}

func TestParseAssignsPositionalIDs(t *testing.T) {
	f, err := Parse("gen", []byte(sampleArray))
	require.NoError(t, err)
	assert.Equal(t, "gen-1", f.Questions[0].ID)
	assert.Equal(t, "gen-2", f.Questions[1].ID)
}

func TestParseEnvelope(t *testing.T) {
	data := `{"version": "v1.2.0", "title": "Endo", "questions": [
	  {"id": "x", "question": "Q", "options": {"A": "a", "B": "b"}, "correct": ["B"]}
	]}`
	f, err := Parse("endo", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, "Endo", f.Title)
	assert.Equal(t, "endo/x", f.Questions[0].ID)
	assert.True(t, f.Questions[0].IsCorrect("B"))
	assert.False(t, f.Questions[0].IsCorrect("A"))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"empty", `[]`},
		{"missing correct", `[{"question": "Q", "options": {"A": "a"}}]`},
		{"empty correct", `[{"question": "Q", "options": {"A": "a"}, "correct": []}]`},
		{"correct not an option", `[{"question": "Q", "options": {"A": "a", "B": "b"}, "correct": ["D"]}]`},
		{"multi-char letter", `[{"question": "Q", "options": {"AB": "a"}, "correct": ["AB"]}]`},
		{"empty text", `[{"question": "", "options": {"A": "a"}, "correct": ["A"]}]`},
		{"options array", `[{"question": "Q", "options": ["a"], "correct": ["A"]}]`},
		{"duplicate id", `{"version": "v1.0.0", "questions": [
			{"id": "a", "question": "Q", "options": {"A": "a"}, "correct": ["A"]},
			{"id": "a", "question": "Q", "options": {"A": "a"}, "correct": ["A"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("b", []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseVersion(t *testing.T) {
	q := `[{"question": "Q", "options": {"A": "a"}, "correct": ["A"]}]`

	_, err := Parse("b", []byte(`{"version": "v2.0.0", "questions": `+q+`}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Parse("b", []byte(`{"version": "1.0", "questions": `+q+`}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Parse("b", []byte(`{"version": "v1.9.3", "questions": `+q+`}`))
	assert.NoError(t, err)
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"gen.json":    {Data: []byte(sampleArray)},
		"broken.json": {Data: []byte(`[{"question": "Q"}]`)},
		"notes.txt":   {Data: []byte("ignored")},
	}
	src := NewFSSource(fsys, "test")
	ctx := context.Background()

	qs, err := src.Bank(ctx, "gen")
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	_, err = src.Bank(ctx, "missing")
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "missing", ue.Bank)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Bank(ctx, "broken")
	require.ErrorAs(t, err, &ue)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = src.Bank(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	infos, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	byName := map[string]Info{}
	for _, i := range infos {
		byName[i.Name] = i
	}
	assert.Equal(t, 2, byName["gen"].Count)
	assert.Error(t, byName["broken"].Err)
}

type countingSource struct {
	calls int
	qs    []Question
	err   error
}

func (c *countingSource) Bank(ctx context.Context, name string) ([]Question, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.qs, nil
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	notFound := &countingSource{err: &UnavailableError{Bank: "x", Err: ErrNotFound}}
	found := &countingSource{qs: []Question{{ID: "x-1"}}}
	broken := &countingSource{err: &UnavailableError{Bank: "x", Err: errors.New("bad json")}}

	qs, err := Chain{notFound, found}.Bank(ctx, "x")
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	_, err = Chain{broken, found}.Bank(ctx, "x")
	assert.ErrorContains(t, err, "bad json")
	assert.Equal(t, 1, found.calls)

	_, err = Chain{notFound}.Bank(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedLoadsOnce(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{qs: []Question{{ID: "x-1"}}}
	c := NewCached(src)

	for range 3 {
		_, err := c.Bank(ctx, "x")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.calls)
}

func TestBuiltinBanksAreValid(t *testing.T) {
	ctx := context.Background()
	src := Builtin()

	infos, err := src.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, infos)
	for _, info := range infos {
		assert.NoError(t, info.Err, info.Name)
	}

	general, err := src.Bank(ctx, "general")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(general), 10)
}
