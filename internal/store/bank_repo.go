package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/ripasso/internal/bank"
)

// Origin labels banks served from the database in listings.
const Origin = "store"

// BankRepo stores imported banks. It implements bank.Source and bank.Lister.
type BankRepo struct {
	drv *entsql.Driver
}

// Import replaces the bank name with the questions of f.
func (r *BankRepo) Import(ctx context.Context, name string, f *bank.File) error {
	if !bank.ValidName(name) {
		return fmt.Errorf("invalid bank name %q", name)
	}

	ins := builder().Insert(questionsTable).
		Columns("bank_name", "position", "question_id", "text", "options", "correct", "explanation")
	for i, q := range f.Questions {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("question %d: marshal options: %w", i+1, err)
		}
		correct, err := json.Marshal(q.Correct)
		if err != nil {
			return fmt.Errorf("question %d: marshal correct: %w", i+1, err)
		}
		ins.Values(name, i, q.ID, q.Text, string(opts), string(correct), q.Explanation)
	}

	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		if err := deleteBank(ctx, tx, name); err != nil {
			return err
		}
		err := exec(ctx, tx, builder().Insert(banksTable).
			Columns("name", "title", "version", "question_count", "imported_at").
			Values(name, f.Title, f.Version, len(f.Questions), time.Now().UTC()))
		if err != nil {
			return fmt.Errorf("insert bank: %w", err)
		}
		if len(f.Questions) == 0 {
			return nil
		}
		if err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}

// Delete removes the bank name. Deleting a missing bank returns
// bank.ErrNotFound.
func (r *BankRepo) Delete(ctx context.Context, name string) error {
	found, err := r.exists(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		return &bank.UnavailableError{Bank: name, Err: bank.ErrNotFound}
	}
	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		return deleteBank(ctx, tx, name)
	})
}

func deleteBank(ctx context.Context, tx dialect.ExecQuerier, name string) error {
	if err := exec(ctx, tx, builder().Delete(questionsTable).Where(entsql.EQ("bank_name", name))); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	if err := exec(ctx, tx, builder().Delete(banksTable).Where(entsql.EQ("name", name))); err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	return nil
}

func (r *BankRepo) exists(ctx context.Context, name string) (bool, error) {
	found := false
	err := query(ctx, r.drv,
		builder().Select("name").From(builder().Table(banksTable)).Where(entsql.EQ("name", name)).Limit(1),
		func(*entsql.Rows) error {
			found = true
			return nil
		})
	if err != nil {
		return false, fmt.Errorf("query bank: %w", err)
	}
	return found, nil
}

// Bank returns the questions of an imported bank in import order.
func (r *BankRepo) Bank(ctx context.Context, name string) ([]bank.Question, error) {
	found, err := r.exists(ctx, name)
	if err != nil {
		return nil, &bank.UnavailableError{Bank: name, Err: err}
	}
	if !found {
		return nil, &bank.UnavailableError{Bank: name, Err: bank.ErrNotFound}
	}

	var qs []bank.Question
	sel := builder().
		Select("question_id", "text", "options", "correct", "explanation").
		From(builder().Table(questionsTable)).
		Where(entsql.EQ("bank_name", name)).
		OrderBy("position")
	err = query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			q             bank.Question
			opts, correct []byte
		)
		if err := rows.Scan(&q.ID, &q.Text, &opts, &correct, &q.Explanation); err != nil {
			return err
		}
		if err := json.Unmarshal(opts, &q.Options); err != nil {
			return fmt.Errorf("question %s: options: %w", q.ID, err)
		}
		if err := json.Unmarshal(correct, &q.Correct); err != nil {
			return fmt.Errorf("question %s: correct: %w", q.ID, err)
		}
		qs = append(qs, q)
		return nil
	})
	if err != nil {
		return nil, &bank.UnavailableError{Bank: name, Err: err}
	}
	return qs, nil
}

// List returns the imported banks ordered by name.
func (r *BankRepo) List(ctx context.Context) ([]bank.Info, error) {
	var out []bank.Info
	sel := builder().
		Select("name", "title", "question_count").
		From(builder().Table(banksTable)).
		OrderBy("name")
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		info := bank.Info{Origin: Origin}
		if err := rows.Scan(&info.Name, &info.Title, &info.Count); err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	return out, nil
}
