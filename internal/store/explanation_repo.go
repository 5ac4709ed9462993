package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Explanation is a generated explanation of one question.
type Explanation struct {
	QuestionID string
	Model      string
	Content    json.RawMessage
	CreatedAt  time.Time
}

// ExplanationRepo caches generated explanations by question ID.
type ExplanationRepo struct {
	drv *entsql.Driver
}

// Get returns the cached explanation for questionID, or nil if none exists.
func (r *ExplanationRepo) Get(ctx context.Context, questionID string) (*Explanation, error) {
	var found *Explanation
	sel := builder().
		Select("question_id", "model", "content", "created_at").
		From(builder().Table(explanationsTable)).
		Where(entsql.EQ("question_id", questionID)).
		Limit(1)
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			e       Explanation
			content []byte
		)
		if err := rows.Scan(&e.QuestionID, &e.Model, &content, &e.CreatedAt); err != nil {
			return err
		}
		e.Content = json.RawMessage(content)
		found = &e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query explanation: %w", err)
	}
	return found, nil
}

// Put stores e, replacing any previous explanation of the same question.
func (r *ExplanationRepo) Put(ctx context.Context, e *Explanation) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	err := exec(ctx, r.drv, builder().Insert(explanationsTable).
		Columns("question_id", "model", "content", "created_at").
		Values(e.QuestionID, e.Model, string(e.Content), e.CreatedAt).
		OnConflict(
			entsql.ConflictColumns("question_id"),
			entsql.ResolveWithNewValues(),
		))
	if err != nil {
		return fmt.Errorf("save explanation: %w", err)
	}
	return nil
}

// Clear deletes every cached explanation and returns how many were removed.
func (r *ExplanationRepo) Clear(ctx context.Context) (int, error) {
	return clearTable(ctx, r.drv, explanationsTable)
}
