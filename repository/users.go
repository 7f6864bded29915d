// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/pageant-tally/models"
)

type UserRepository struct {
	q Querier
}

// UserUpdate holds the columns to change; nil fields are skipped.
// Password must already be hashed.
type UserUpdate struct {
	Username *string
	Password *string
	Role     *string
}

const userColumns = "id, username, password, role, created_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u and fills in its ID and CreatedAt
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRowContext(ctx, `
		INSERT INTO users (username, password, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Username, u.Password, u.Role, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, opts ListOptions) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	var args []any
	if opts.Role != "" {
		query += " WHERE role = $1"
		args = append(args, opts.Role)
	}
	query += orderBy(opts)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	var set setBuilder
	if upd.Username != nil {
		set.add("username", *upd.Username)
	}
	if upd.Password != nil {
		set.add("password", *upd.Password)
	}
	if upd.Role != nil {
		set.add("role", *upd.Role)
	}

	if !set.empty() {
		if err := set.update(ctx, r.q, "users", id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return classify(err)
	}
	return expectRow(res)
}

func (r *UserRepository) Stats(ctx context.Context) (models.UserStats, error) {
	var stats models.UserStats
	err := r.q.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN role = $1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN role = $2 THEN 1 ELSE 0 END), 0)
		FROM users
	`, models.RoleJudge, models.RoleOrganizer).Scan(&stats.Total, &stats.JudgeCount, &stats.OrganizerCount)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to count users: %w", err)
	}
	return stats, nil
}
