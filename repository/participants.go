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

type ParticipantRepository struct {
	q Querier
}

type ParticipantUpdate struct {
	Number   *int64
	Fullname *string
	Role     *string
	Note     *string // empty string clears the note
}

const participantColumns = "id, number, fullname, role, note, created_at"

func scanParticipant(row interface{ Scan(...any) error }) (*models.Participant, error) {
	var p models.Participant
	var note sql.NullString
	if err := row.Scan(&p.ID, &p.Number, &p.Fullname, &p.Role, &note, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Note = note.String
	return &p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *ParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRowContext(ctx, `
		INSERT INTO participants (number, fullname, role, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Number, p.Fullname, p.Role, nullable(p.Note), p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*models.Participant, error) {
	return r.getOne(ctx, "SELECT "+participantColumns+" FROM participants WHERE id = $1", id)
}

func (r *ParticipantRepository) GetByNumber(ctx context.Context, number int64) (*models.Participant, error) {
	return r.getOne(ctx, "SELECT "+participantColumns+" FROM participants WHERE number = $1", number)
}

func (r *ParticipantRepository) getOne(ctx context.Context, query string, arg any) (*models.Participant, error) {
	p, err := scanParticipant(r.q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query participant: %w", err)
	}
	return p, nil
}

// List returns participants by creation time, or by contestant number when
// filtered to a single category.
func (r *ParticipantRepository) List(ctx context.Context, opts ListOptions) ([]models.Participant, error) {
	query := "SELECT " + participantColumns + " FROM participants"
	var args []any
	if opts.Role != "" {
		query += " WHERE role = $1 ORDER BY number ASC"
		args = append(args, opts.Role)
	} else {
		query += orderBy(opts)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

func (r *ParticipantRepository) Update(ctx context.Context, id int64, upd ParticipantUpdate) (*models.Participant, error) {
	var set setBuilder
	if upd.Number != nil {
		set.add("number", *upd.Number)
	}
	if upd.Fullname != nil {
		set.add("fullname", *upd.Fullname)
	}
	if upd.Role != nil {
		set.add("role", *upd.Role)
	}
	if upd.Note != nil {
		set.add("note", nullable(*upd.Note))
	}

	if !set.empty() {
		if err := set.update(ctx, r.q, "participants", id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *ParticipantRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM participants WHERE id = $1", id)
	if err != nil {
		return classify(err)
	}
	return expectRow(res)
}

func (r *ParticipantRepository) Stats(ctx context.Context) (models.ParticipantStats, error) {
	var stats models.ParticipantStats
	err := r.q.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN role = $1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN role = $2 THEN 1 ELSE 0 END), 0)
		FROM participants
	`, models.CategoryMR, models.CategoryMS).Scan(&stats.Total, &stats.MRCount, &stats.MSCount)
	if err != nil {
		return models.ParticipantStats{}, fmt.Errorf("failed to count participants: %w", err)
	}
	return stats, nil
}
