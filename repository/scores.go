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

type ScoreRepository struct {
	q Querier
}

const scoreColumns = "id, participant_id, criteria_id, user_id, score, created_at, updated_at"

func scanScore(row interface{ Scan(...any) error }) (*models.Score, error) {
	var s models.Score
	if err := row.Scan(&s.ID, &s.ParticipantID, &s.CriteriaID, &s.UserID, &s.Score, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert writes the single row for (participant, criteria, user). An existing
// row keeps its id and created_at; score and updated_at are overwritten.
func (r *ScoreRepository) Upsert(ctx context.Context, participantID, criteriaID, userID int64, score float64) (*models.Score, error) {
	now := time.Now().UTC()

	var id int64
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO scores (participant_id, criteria_id, user_id, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (participant_id, criteria_id, user_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
		RETURNING id
	`, participantID, criteriaID, userID, score, now).Scan(&id)
	if err != nil {
		return nil, classify(err)
	}

	return r.GetByID(ctx, id)
}

func (r *ScoreRepository) GetByID(ctx context.Context, id int64) (*models.Score, error) {
	s, err := scanScore(r.q.QueryRowContext(ctx, "SELECT "+scoreColumns+" FROM scores WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query score: %w", err)
	}
	return s, nil
}

func (r *ScoreRepository) List(ctx context.Context, opts ListOptions) ([]models.Score, error) {
	return r.list(ctx, "SELECT "+scoreColumns+" FROM scores"+orderBy(opts))
}

// ListByParticipant returns every judge's scores for one participant
func (r *ScoreRepository) ListByParticipant(ctx context.Context, participantID int64) ([]models.Score, error) {
	return r.list(ctx, "SELECT "+scoreColumns+" FROM scores WHERE participant_id = $1"+orderBy(ListOptions{}), participantID)
}

func (r *ScoreRepository) list(ctx context.Context, query string, args ...any) ([]models.Score, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	list := []models.Score{}
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	return list, nil
}

// ListByUserAndSegment returns one judge's scores for a segment joined with
// their criteria, ordered by participant then criteria creation.
func (r *ScoreRepository) ListByUserAndSegment(ctx context.Context, userID, segmentID int64) ([]models.ScoreRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT s.id, s.participant_id, s.criteria_id, c.name, c.max_score, s.score, s.updated_at
		FROM scores s
		JOIN criteria c ON c.id = s.criteria_id
		WHERE s.user_id = $1 AND c.segment_id = $2
		ORDER BY s.participant_id, c.created_at, c.id
	`, userID, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	list := []models.ScoreRow{}
	for rows.Next() {
		var row models.ScoreRow
		if err := rows.Scan(&row.ScoreID, &row.ParticipantID, &row.CriteriaID,
			&row.CriteriaName, &row.MaxScore, &row.Score, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	return list, nil
}

// SegmentTallies sums every judge's scores per participant for one segment.
// Participants without scores are included with a zero total.
func (r *ScoreRepository) SegmentTallies(ctx context.Context, segmentID int64) ([]models.Standing, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.number, p.fullname, p.role,
		       COALESCE(SUM(s.score), 0), COUNT(DISTINCT s.user_id)
		FROM participants p
		LEFT JOIN scores s ON s.participant_id = p.id
		     AND s.criteria_id IN (SELECT id FROM criteria WHERE segment_id = $1)
		GROUP BY p.id, p.number, p.fullname, p.role
		ORDER BY p.number
	`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment tallies: %w", err)
	}
	defer rows.Close()

	list := []models.Standing{}
	for rows.Next() {
		var st models.Standing
		if err := rows.Scan(&st.ParticipantID, &st.Number, &st.Fullname, &st.Role,
			&st.Total, &st.JudgeCount); err != nil {
			return nil, fmt.Errorf("failed to scan segment tally: %w", err)
		}
		list = append(list, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate segment tallies: %w", err)
	}
	return list, nil
}

// MaxForCriteria returns the highest recorded score for a criterion, or 0
func (r *ScoreRepository) MaxForCriteria(ctx context.Context, criteriaID int64) (float64, error) {
	var highest float64
	err := r.q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(score), 0) FROM scores WHERE criteria_id = $1", criteriaID).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("failed to query max score: %w", err)
	}
	return highest, nil
}

func (r *ScoreRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM scores WHERE id = $1", id)
	if err != nil {
		return classify(err)
	}
	return expectRow(res)
}

func (r *ScoreRepository) DeleteByCriteria(ctx context.Context, criteriaID int64) (int64, error) {
	return r.deleteWhere(ctx, "criteria_id = $1", criteriaID)
}

func (r *ScoreRepository) DeleteBySegment(ctx context.Context, segmentID int64) (int64, error) {
	return r.deleteWhere(ctx, "criteria_id IN (SELECT id FROM criteria WHERE segment_id = $1)", segmentID)
}

func (r *ScoreRepository) DeleteByParticipant(ctx context.Context, participantID int64) (int64, error) {
	return r.deleteWhere(ctx, "participant_id = $1", participantID)
}

func (r *ScoreRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return r.deleteWhere(ctx, "user_id = $1", userID)
}

func (r *ScoreRepository) deleteWhere(ctx context.Context, where string, arg any) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM scores WHERE "+where, arg)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
