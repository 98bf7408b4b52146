package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the collection in one table. seq carries creation
// order; SaveAll rewrites the table inside a single transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initReminderSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initReminderSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			seq BIGINT PRIMARY KEY,
			type TEXT NOT NULL CHECK (type IN ('birthday', 'medical', 'payment', 'general')),
			description TEXT NOT NULL DEFAULT '',
			date DATE NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_date ON reminders (date);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init reminder schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]Reminder, error) {
	rows, err := s.pool.Query(ctx, `SELECT type, description, date FROM reminders ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	out := make([]Reminder, 0, 16)
	for rows.Next() {
		var (
			r        Reminder
			category string
			day      time.Time
		)
		if err := rows.Scan(&category, &r.Description, &day); err != nil {
			return nil, fmt.Errorf("scan reminder row: %w", err)
		}
		r.Category = Category(category)
		r.Date = day.Format(DateLayout)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveAll(ctx context.Context, reminders []Reminder) error {
	if err := ValidateAll(reminders); err != nil {
		return err
	}

	rows := make([][]any, 0, len(reminders))
	for i, r := range reminders {
		day, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			return fmt.Errorf("%w: reminder %d date: %v", ErrInvalidReminder, i, err)
		}
		rows = append(rows, []any{int64(i), string(r.Category), r.Description, day})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("delete prior reminders: %w", err)
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"reminders"},
			[]string{"seq", "type", "description", "date"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("insert reminders: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
