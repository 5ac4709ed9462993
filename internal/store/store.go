// Package store persists imported banks, cached explanations and quiz
// results in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the SQL driver and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, drv: drv}, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// withPragmas appends the connection pragmas to dsn.
func withPragmas(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Banks returns the repository of imported banks.
func (s *Store) Banks() *BankRepo {
	return &BankRepo{drv: s.drv}
}

// Explanations returns the repository of cached explanations.
func (s *Store) Explanations() *ExplanationRepo {
	return &ExplanationRepo{drv: s.drv}
}

// Results returns the repository of finished quizzes.
func (s *Store) Results() *ResultRepo {
	return &ResultRepo{drv: s.drv}
}

// builder returns a SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// withTx runs fn inside a transaction, rolling back on error.
func withTx(ctx context.Context, drv *entsql.Driver, fn func(tx dialect.Tx) error) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// exec runs a built statement.
func exec(ctx context.Context, ex dialect.ExecQuerier, q entsql.Querier) error {
	query, args := q.Query()
	return ex.Exec(ctx, query, args, nil)
}

// query runs a built query and calls scan for each row.
func query(ctx context.Context, ex dialect.ExecQuerier, q entsql.Querier, scan func(*entsql.Rows) error) error {
	stmt, args := q.Query()
	var rows entsql.Rows
	if err := ex.Query(ctx, stmt, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func clearTable(ctx context.Context, drv *entsql.Driver, table string) (int, error) {
	stmt, args := builder().Delete(table).Query()
	var res sql.Result
	if err := drv.Exec(ctx, stmt, args, &res); err != nil {
		return 0, fmt.Errorf("clear %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", table, err)
	}
	return int(n), nil
}
