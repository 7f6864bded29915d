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

type SegmentRepository struct {
	q Querier
}

func (r *SegmentRepository) Create(ctx context.Context, s *models.Segment) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRowContext(ctx, `
		INSERT INTO segments (event, created_at)
		VALUES ($1, $2)
		RETURNING id
	`, s.Event, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *SegmentRepository) GetByID(ctx context.Context, id int64) (*models.Segment, error) {
	return r.getOne(ctx, "SELECT id, event, created_at FROM segments WHERE id = $1", id)
}

func (r *SegmentRepository) GetByEvent(ctx context.Context, event string) (*models.Segment, error) {
	return r.getOne(ctx, "SELECT id, event, created_at FROM segments WHERE event = $1", event)
}

func (r *SegmentRepository) getOne(ctx context.Context, query string, arg any) (*models.Segment, error) {
	var s models.Segment
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&s.ID, &s.Event, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query segment: %w", err)
	}
	return &s, nil
}

func (r *SegmentRepository) List(ctx context.Context, opts ListOptions) ([]models.Segment, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT id, event, created_at FROM segments"+orderBy(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	segments := []models.Segment{}
	for rows.Next() {
		var s models.Segment
		if err := rows.Scan(&s.ID, &s.Event, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate segments: %w", err)
	}
	return segments, nil
}

func (r *SegmentRepository) UpdateEvent(ctx context.Context, id int64, event string) (*models.Segment, error) {
	var set setBuilder
	set.add("event", event)
	if err := set.update(ctx, r.q, "segments", id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SegmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM segments WHERE id = $1", id)
	if err != nil {
		return classify(err)
	}
	return expectRow(res)
}
