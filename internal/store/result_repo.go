package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Result records one finished quiz.
type Result struct {
	SessionID   string
	Mode        string
	Total       int
	Correct     int
	Incorrect   int
	Unanswered  int
	Score       int
	MaxScore    int
	Passed      bool
	Termination string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// ResultQuery filters Recent. Zero values mean no filter.
type ResultQuery struct {
	Mode  string
	Limit int
}

// ModeSummary aggregates the results of one mode.
type ModeSummary struct {
	Mode      string
	Attempts  int
	Passed    int
	BestScore int
	MaxScore  int
}

// ResultRepo appends and queries quiz results.
type ResultRepo struct {
	drv *entsql.Driver
}

// Append stores res. A session is recorded at most once; appending the same
// session ID again is a no-op.
func (r *ResultRepo) Append(ctx context.Context, res Result) error {
	err := exec(ctx, r.drv, builder().Insert(resultsTable).
		Columns("session_id", "mode", "total", "correct", "incorrect", "unanswered",
			"score", "max_score", "passed", "termination", "started_at", "finished_at").
		Values(res.SessionID, res.Mode, res.Total, res.Correct, res.Incorrect, res.Unanswered,
			res.Score, res.MaxScore, res.Passed, res.Termination, res.StartedAt.UTC(), res.FinishedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.DoNothing(),
		))
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// Recent returns results newest first.
func (r *ResultRepo) Recent(ctx context.Context, q ResultQuery) ([]Result, error) {
	sel := builder().
		Select("session_id", "mode", "total", "correct", "incorrect", "unanswered",
			"score", "max_score", "passed", "termination", "started_at", "finished_at").
		From(builder().Table(resultsTable)).
		OrderBy(entsql.Desc("finished_at"), entsql.Desc("id"))
	if q.Mode != "" {
		sel.Where(entsql.EQ("mode", q.Mode))
	}
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}

	var out []Result
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var res Result
		err := rows.Scan(&res.SessionID, &res.Mode, &res.Total, &res.Correct, &res.Incorrect,
			&res.Unanswered, &res.Score, &res.MaxScore, &res.Passed, &res.Termination,
			&res.StartedAt, &res.FinishedAt)
		if err != nil {
			return err
		}
		out = append(out, res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	return out, nil
}

// Summaries aggregates results per mode, ordered by mode name.
func (r *ResultRepo) Summaries(ctx context.Context) ([]ModeSummary, error) {
	results, err := r.Recent(ctx, ResultQuery{})
	if err != nil {
		return nil, err
	}

	byMode := make(map[string]*ModeSummary)
	var order []string
	for _, res := range results {
		s, ok := byMode[res.Mode]
		if !ok {
			s = &ModeSummary{Mode: res.Mode}
			byMode[res.Mode] = s
			order = append(order, res.Mode)
		}
		s.Attempts++
		if res.Passed {
			s.Passed++
		}
		if res.Score > s.BestScore || s.Attempts == 1 {
			s.BestScore = res.Score
			s.MaxScore = res.MaxScore
		}
	}

	slices.Sort(order)
	out := make([]ModeSummary, 0, len(order))
	for _, m := range order {
		out = append(out, *byMode[m])
	}
	return out, nil
}

// Clear deletes every recorded result and returns how many were removed.
func (r *ResultRepo) Clear(ctx context.Context) (int, error) {
	return clearTable(ctx, r.drv, resultsTable)
}
