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

type CriteriaRepository struct {
	q Querier
}

type CriteriaUpdate struct {
	Name     *string
	MaxScore *int
}

const criteriaColumns = "id, segment_id, name, max_score, created_at"

func scanCriteria(row interface{ Scan(...any) error }) (*models.Criteria, error) {
	var c models.Criteria
	if err := row.Scan(&c.ID, &c.SegmentID, &c.Name, &c.MaxScore, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CriteriaRepository) Create(ctx context.Context, c *models.Criteria) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRowContext(ctx, `
		INSERT INTO criteria (segment_id, name, max_score, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.SegmentID, c.Name, c.MaxScore, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *CriteriaRepository) GetByID(ctx context.Context, id int64) (*models.Criteria, error) {
	c, err := scanCriteria(r.q.QueryRowContext(ctx,
		"SELECT "+criteriaColumns+" FROM criteria WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query criteria: %w", err)
	}
	return c, nil
}

func (r *CriteriaRepository) List(ctx context.Context, opts ListOptions) ([]models.Criteria, error) {
	return r.list(ctx, "SELECT "+criteriaColumns+" FROM criteria"+orderBy(opts))
}

// ListBySegment returns a segment's criteria in creation order
func (r *CriteriaRepository) ListBySegment(ctx context.Context, segmentID int64) ([]models.Criteria, error) {
	return r.list(ctx, "SELECT "+criteriaColumns+" FROM criteria WHERE segment_id = $1"+orderBy(ListOptions{}), segmentID)
}

func (r *CriteriaRepository) list(ctx context.Context, query string, args ...any) ([]models.Criteria, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query criteria: %w", err)
	}
	defer rows.Close()

	list := []models.Criteria{}
	for rows.Next() {
		c, err := scanCriteria(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan criteria: %w", err)
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate criteria: %w", err)
	}
	return list, nil
}

func (r *CriteriaRepository) Update(ctx context.Context, id int64, upd CriteriaUpdate) (*models.Criteria, error) {
	var set setBuilder
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.MaxScore != nil {
		set.add("max_score", *upd.MaxScore)
	}

	if !set.empty() {
		if err := set.update(ctx, r.q, "criteria", id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *CriteriaRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM criteria WHERE id = $1", id)
	if err != nil {
		return classify(err)
	}
	return expectRow(res)
}

// DeleteBySegment removes every criterion of a segment and returns how many
func (r *CriteriaRepository) DeleteBySegment(ctx context.Context, segmentID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM criteria WHERE segment_id = $1", segmentID)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
