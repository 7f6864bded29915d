// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/pageant-tally/auth"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/repository"
)

type ScoreService struct {
	store *repository.Store
}

func NewScoreService(store *repository.Store) *ScoreService {
	return &ScoreService{store: store}
}

// Upsert records the calling judge's score for one participant and criterion,
// replacing any earlier value.
func (s *ScoreService) Upsert(ctx context.Context, session auth.Session, req models.UpsertScoreRequest) (*models.Score, error) {
	if err := requireID(EntityScore, CodeInvalidParticipantID, "Participant ID", req.ParticipantID); err != nil {
		return nil, err
	}
	if err := requireID(EntityScore, CodeInvalidCriteriaID, "Criteria ID", req.CriteriaID); err != nil {
		return nil, err
	}

	c, err := s.store.Criteria.GetByID(ctx, req.CriteriaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, criteriaNotFound(req.CriteriaID)
		}
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch criteria", err)
	}
	if err := requireScore(req.Score, c.MaxScore); err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, req.ParticipantID); err != nil {
		return nil, err
	}

	score, err := s.store.Scores.Upsert(ctx, req.ParticipantID, req.CriteriaID, session.UserID, *req.Score)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, userNotFound(session.UserID)
		}
		return nil, wrap(EntityScore, CodeCreateFailed, "save score", err)
	}

	slog.Info("score recorded", "judge_id", session.UserID, "participant_id", req.ParticipantID,
		"criteria_id", req.CriteriaID, "score", *req.Score)
	return score, nil
}

// Submit records a judge's scores for several criteria of one segment. Every
// entry is validated before any is written, and all are written together.
func (s *ScoreService) Submit(ctx context.Context, session auth.Session, segmentID, participantID int64, scores map[int64]*float64) (*models.SubmitScoresResponse, error) {
	if err := requireID(EntityScore, CodeInvalidSegmentID, "Segment ID", segmentID); err != nil {
		return nil, err
	}
	if err := requireID(EntityScore, CodeInvalidParticipantID, "Participant ID", participantID); err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, newError(EntityScore, CodeInvalidScore, "At least one score is required")
	}

	criteria, err := s.segmentCriteria(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, participantID); err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Criteria, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}
	for criteriaID, value := range scores {
		c, ok := byID[criteriaID]
		if !ok {
			return nil, newError(EntityScore, CodeInvalidCriteriaID,
				"Criteria %d does not belong to segment %d", criteriaID, segmentID)
		}
		if err := requireScore(value, c.MaxScore); err != nil {
			return nil, err
		}
	}

	out := &models.SubmitScoresResponse{Scores: make([]models.Score, 0, len(scores))}
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		// Criteria order keeps the response stable
		for _, c := range criteria {
			value, ok := scores[c.ID]
			if !ok {
				continue
			}
			score, err := tx.Scores.Upsert(ctx, participantID, c.ID, session.UserID, *value)
			if err != nil {
				if errors.Is(err, repository.ErrForeignKey) {
					return userNotFound(session.UserID)
				}
				return err
			}
			out.Scores = append(out.Scores, *score)
		}
		return nil
	})
	if err != nil {
		return nil, wrap(EntityScore, CodeCreateFailed, "save scores", err)
	}

	total, err := s.judgeTotal(ctx, session.UserID, segmentID, participantID, criteria)
	if err != nil {
		return nil, err
	}
	out.Total = total

	slog.Info("scores submitted", "judge_id", session.UserID, "segment_id", segmentID,
		"participant_id", participantID, "count", len(out.Scores), "total", total.Total)
	return out, nil
}

// GetByID returns one score. Judges may only read their own.
func (s *ScoreService) GetByID(ctx context.Context, session auth.Session, id int64) (*models.Score, error) {
	if err := requireID(EntityScore, CodeInvalidID, "Score ID", id); err != nil {
		return nil, err
	}

	score, err := s.store.Scores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, scoreNotFound(id)
		}
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch score", err)
	}
	if err := canTouch(session, score); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *ScoreService) List(ctx context.Context, opts repository.ListOptions) ([]models.Score, error) {
	list, err := s.store.Scores.List(ctx, opts)
	if err != nil {
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch scores", err)
	}
	return list, nil
}

// ListByParticipant returns every judge's scores for one participant across
// all segments
func (s *ScoreService) ListByParticipant(ctx context.Context, participantID int64) ([]models.Score, error) {
	if err := requireID(EntityScore, CodeInvalidParticipantID, "Participant ID", participantID); err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, participantID); err != nil {
		return nil, err
	}

	list, err := s.store.Scores.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch scores", err)
	}
	return list, nil
}

// Delete removes one score. Judges may only delete their own.
func (s *ScoreService) Delete(ctx context.Context, session auth.Session, id int64) error {
	score, err := s.GetByID(ctx, session, id)
	if err != nil {
		return err
	}

	if err := s.store.Scores.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return scoreNotFound(id)
		}
		return wrap(EntityScore, CodeDeleteFailed, "delete score", err)
	}

	slog.Info("score deleted", "score_id", id, "by", session.UserID, "judge_id", score.UserID,
		"participant_id", score.ParticipantID, "criteria_id", score.CriteriaID)
	return nil
}

// ParticipantTotal sums the calling judge's scores for a participant in a segment
func (s *ScoreService) ParticipantTotal(ctx context.Context, session auth.Session, segmentID, participantID int64) (*models.Total, error) {
	if err := requireID(EntityScore, CodeInvalidSegmentID, "Segment ID", segmentID); err != nil {
		return nil, err
	}
	if err := requireID(EntityScore, CodeInvalidParticipantID, "Participant ID", participantID); err != nil {
		return nil, err
	}

	criteria, err := s.segmentCriteria(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, participantID); err != nil {
		return nil, err
	}

	total, err := s.judgeTotal(ctx, session.UserID, segmentID, participantID, criteria)
	if err != nil {
		return nil, err
	}
	return &total, nil
}

// JudgeSheet returns everything the calling judge has scored in a segment,
// with one total per scored participant.
func (s *ScoreService) JudgeSheet(ctx context.Context, session auth.Session, segmentID int64) (*models.JudgeSheet, error) {
	if err := requireID(EntityScore, CodeInvalidSegmentID, "Segment ID", segmentID); err != nil {
		return nil, err
	}
	criteria, err := s.segmentCriteria(ctx, segmentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Scores.ListByUserAndSegment(ctx, session.UserID, segmentID)
	if err != nil {
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch scores", err)
	}

	var order []int64
	byParticipant := make(map[int64]map[int64]float64)
	for _, row := range rows {
		m, ok := byParticipant[row.ParticipantID]
		if !ok {
			m = make(map[int64]float64)
			byParticipant[row.ParticipantID] = m
			order = append(order, row.ParticipantID)
		}
		m[row.CriteriaID] = row.Score
	}

	totals := make([]models.Total, 0, len(order))
	for _, pid := range order {
		totals = append(totals, Aggregate(pid, segmentID, criteria, byParticipant[pid]))
	}

	return &models.JudgeSheet{
		SegmentID: segmentID,
		Criteria:  criteria,
		Scores:    rows,
		Totals:    totals,
	}, nil
}

// Leaderboard ranks every participant by their summed score across all
// judges for one segment.
func (s *ScoreService) Leaderboard(ctx context.Context, segmentID int64) (*models.Leaderboard, error) {
	if err := requireID(EntityScore, CodeInvalidSegmentID, "Segment ID", segmentID); err != nil {
		return nil, err
	}
	seg, err := s.store.Segments.GetByID(ctx, segmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, segmentNotFound(segmentID)
		}
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch segment", err)
	}
	criteria, err := s.store.Criteria.ListBySegment(ctx, segmentID)
	if err != nil {
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch criteria", err)
	}
	standings, err := s.store.Scores.SegmentTallies(ctx, segmentID)
	if err != nil {
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch scores", err)
	}

	maxTotal := MaxTotal(criteria)
	for i := range standings {
		standings[i].MaxTotal = maxTotal * float64(standings[i].JudgeCount)
		standings[i].Percentage = Percentage(standings[i].Total, standings[i].MaxTotal)
	}
	Rank(standings)

	return &models.Leaderboard{Segment: *seg, MaxTotal: maxTotal, Standings: standings}, nil
}

// segmentCriteria loads the criteria of an existing segment
func (s *ScoreService) segmentCriteria(ctx context.Context, segmentID int64) ([]models.Criteria, error) {
	if _, err := s.store.Segments.GetByID(ctx, segmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, segmentNotFound(segmentID)
		}
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch segment", err)
	}
	criteria, err := s.store.Criteria.ListBySegment(ctx, segmentID)
	if err != nil {
		return nil, wrap(EntityScore, CodeFetchFailed, "fetch criteria", err)
	}
	return criteria, nil
}

func (s *ScoreService) requireParticipant(ctx context.Context, id int64) error {
	if _, err := s.store.Participants.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return participantNotFound(id)
		}
		return wrap(EntityScore, CodeFetchFailed, "fetch participant", err)
	}
	return nil
}

func (s *ScoreService) judgeTotal(ctx context.Context, judgeID, segmentID, participantID int64, criteria []models.Criteria) (models.Total, error) {
	rows, err := s.store.Scores.ListByUserAndSegment(ctx, judgeID, segmentID)
	if err != nil {
		return models.Total{}, wrap(EntityScore, CodeFetchFailed, "fetch scores", err)
	}
	scores := make(map[int64]float64)
	for _, row := range rows {
		if row.ParticipantID == participantID {
			scores[row.CriteriaID] = row.Score
		}
	}
	return Aggregate(participantID, segmentID, criteria, scores), nil
}

// canTouch allows organizers any score and judges their own
func canTouch(session auth.Session, score *models.Score) error {
	if session.Role == models.RoleOrganizer || session.UserID == score.UserID {
		return nil
	}
	return newError(EntityScore, CodeForbidden, "Score %d belongs to another judge", score.ID)
}

func scoreNotFound(id int64) error {
	return newError(EntityScore, CodeNotFound, "Score with ID %d not found", id)
}
