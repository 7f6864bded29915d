// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("unique constraint violated")
	ErrForeignKey = errors.New("foreign key constraint violated")
)

// Querier is satisfied by both *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ListOptions controls ordering and filtering for list queries.
// Role is only honored by users and participants.
type ListOptions struct {
	Desc bool
	Role string
}

// Store groups the per-entity repositories over one connection or transaction.
type Store struct {
	db *sql.DB // nil inside a transaction

	Users        *UserRepository
	Participants *ParticipantRepository
	Segments     *SegmentRepository
	Criteria     *CriteriaRepository
	Scores       *ScoreRepository
}

func NewStore(db *sql.DB) *Store {
	s := newStore(db)
	s.db = db
	return s
}

func newStore(q Querier) *Store {
	return &Store{
		Users:        &UserRepository{q: q},
		Participants: &ParticipantRepository{q: q},
		Segments:     &SegmentRepository{q: q},
		Criteria:     &CriteriaRepository{q: q},
		Scores:       &ScoreRepository{q: q},
	}
}

// InTx runs fn inside a transaction. Calls made on a Store that is already
// transactional join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// classify maps driver constraint errors onto ErrDuplicate and ErrForeignKey
// while keeping the driver error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
		// Without extended result codes only the primary code is set
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := liteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%w: %w", ErrDuplicate, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%w: %w", ErrForeignKey, err)
			}
		}
	}

	return err
}

// setBuilder collects "column = $n" pairs for partial updates
type setBuilder struct {
	cols []string
	args []any
}

func (b *setBuilder) add(col string, val any) {
	b.args = append(b.args, val)
	b.cols = append(b.cols, col+" = $"+strconv.Itoa(len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.cols) == 0
}

// update runs UPDATE table SET ... WHERE id = $n and reports ErrNotFound
// when no row matched.
func (b *setBuilder) update(ctx context.Context, q Querier, table string, id int64) error {
	args := append(b.args, id)
	query := "UPDATE " + table + " SET " + strings.Join(b.cols, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func orderBy(opts ListOptions) string {
	if opts.Desc {
		return " ORDER BY created_at DESC, id DESC"
	}
	return " ORDER BY created_at ASC, id ASC"
}
