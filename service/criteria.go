// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/repository"
)

type CriteriaService struct {
	store *repository.Store
}

func NewCriteriaService(store *repository.Store) *CriteriaService {
	return &CriteriaService{store: store}
}

// criteriaFromInput validates a name and optional max score, defaulting the
// max score to DefaultMaxScore.
func criteriaFromInput(name string, maxScore *int) (models.Criteria, error) {
	name, err := validateText(EntityCriteria, CodeInvalidName, "Criteria name", name)
	if err != nil {
		return models.Criteria{}, err
	}
	limit := DefaultMaxScore
	if maxScore != nil {
		limit = *maxScore
	}
	if err := validateMaxScore(EntityCriteria, limit); err != nil {
		return models.Criteria{}, err
	}
	return models.Criteria{Name: name, MaxScore: limit}, nil
}

func (s *CriteriaService) Create(ctx context.Context, req models.CreateCriteriaRequest) (*models.Criteria, error) {
	if err := requireID(EntityCriteria, CodeInvalidSegmentID, "Segment ID", req.SegmentID); err != nil {
		return nil, err
	}
	c, err := criteriaFromInput(req.Name, req.MaxScore)
	if err != nil {
		return nil, err
	}
	c.SegmentID = req.SegmentID

	if err := s.store.Criteria.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, segmentNotFound(req.SegmentID)
		}
		return nil, wrap(EntityCriteria, CodeCreateFailed, "create criteria", err)
	}

	slog.Info("criteria created", "criteria_id", c.ID, "segment_id", c.SegmentID, "max_score", c.MaxScore)
	return &c, nil
}

func (s *CriteriaService) List(ctx context.Context, desc bool) ([]models.Criteria, error) {
	list, err := s.store.Criteria.List(ctx, repository.ListOptions{Desc: desc})
	if err != nil {
		return nil, wrap(EntityCriteria, CodeFetchFailed, "fetch criteria", err)
	}
	return list, nil
}

func (s *CriteriaService) GetByID(ctx context.Context, id int64) (*models.Criteria, error) {
	if err := requireID(EntityCriteria, CodeInvalidID, "Criteria ID", id); err != nil {
		return nil, err
	}
	c, err := s.store.Criteria.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, criteriaNotFound(id)
		}
		return nil, wrap(EntityCriteria, CodeFetchFailed, "fetch criteria", err)
	}
	return c, nil
}

// ListBySegment returns a segment's criteria in creation order
func (s *CriteriaService) ListBySegment(ctx context.Context, segmentID int64) ([]models.Criteria, error) {
	if err := requireID(EntityCriteria, CodeInvalidSegmentID, "Segment ID", segmentID); err != nil {
		return nil, err
	}
	if _, err := s.store.Segments.GetByID(ctx, segmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, segmentNotFound(segmentID)
		}
		return nil, wrap(EntityCriteria, CodeFetchFailed, "fetch criteria", err)
	}

	list, err := s.store.Criteria.ListBySegment(ctx, segmentID)
	if err != nil {
		return nil, wrap(EntityCriteria, CodeFetchFailed, "fetch criteria", err)
	}
	return list, nil
}

// Update changes a criterion's name or max score. The max score cannot drop
// below a score already recorded against the criterion.
func (s *CriteriaService) Update(ctx context.Context, id int64, req models.UpdateCriteriaRequest) (*models.Criteria, error) {
	if err := requireID(EntityCriteria, CodeInvalidID, "Criteria ID", id); err != nil {
		return nil, err
	}

	var upd repository.CriteriaUpdate
	if req.Name != nil {
		name, err := validateText(EntityCriteria, CodeInvalidName, "Criteria name", *req.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if req.MaxScore != nil {
		if err := validateMaxScore(EntityCriteria, *req.MaxScore); err != nil {
			return nil, err
		}
		upd.MaxScore = req.MaxScore
	}

	var updated *models.Criteria
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if upd.MaxScore != nil {
			highest, err := tx.Scores.MaxForCriteria(ctx, id)
			if err != nil {
				return err
			}
			if highest > float64(*upd.MaxScore) {
				return newError(EntityCriteria, CodeInvalidMaxScore,
					"Max score cannot be lower than an existing score of %g", highest)
			}
		}

		var err error
		updated, err = tx.Criteria.Update(ctx, id, upd)
		if errors.Is(err, repository.ErrNotFound) {
			return criteriaNotFound(id)
		}
		return err
	})
	if err != nil {
		return nil, wrap(EntityCriteria, CodeUpdateFailed, "update criteria", err)
	}
	return updated, nil
}

// Delete removes a criterion and every score recorded against it
func (s *CriteriaService) Delete(ctx context.Context, id int64) error {
	if err := requireID(EntityCriteria, CodeInvalidID, "Criteria ID", id); err != nil {
		return err
	}

	var scores int64
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		if scores, err = tx.Scores.DeleteByCriteria(ctx, id); err != nil {
			return err
		}
		if err := tx.Criteria.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return criteriaNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrap(EntityCriteria, CodeDeleteFailed, "delete criteria", err)
	}

	slog.Info("criteria deleted", "criteria_id", id, "scores", scores)
	return nil
}

// DeleteBySegment removes every criterion of a segment and reports how many
func (s *CriteriaService) DeleteBySegment(ctx context.Context, segmentID int64) (int64, error) {
	if err := requireID(EntityCriteria, CodeInvalidSegmentID, "Segment ID", segmentID); err != nil {
		return 0, err
	}

	var n int64
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Scores.DeleteBySegment(ctx, segmentID); err != nil {
			return err
		}
		var err error
		n, err = tx.Criteria.DeleteBySegment(ctx, segmentID)
		return err
	})
	if err != nil {
		return 0, wrap(EntityCriteria, CodeDeleteFailed, "delete criteria", err)
	}
	return n, nil
}

func criteriaNotFound(id int64) error {
	return newError(EntityCriteria, CodeNotFound, "Criteria with ID %d not found", id)
}
