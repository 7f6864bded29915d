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

type SegmentService struct {
	store *repository.Store
}

func NewSegmentService(store *repository.Store) *SegmentService {
	return &SegmentService{store: store}
}

// Create adds a segment, optionally with its criteria, in one transaction
func (s *SegmentService) Create(ctx context.Context, req models.CreateSegmentRequest) (*models.SegmentWithCriteria, error) {
	event, err := validateText(EntitySegment, CodeInvalidEvent, "Event name", req.Event)
	if err != nil {
		return nil, err
	}

	inputs := make([]models.Criteria, 0, len(req.Criteria))
	for _, in := range req.Criteria {
		c, err := criteriaFromInput(in.Name, in.MaxScore)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, c)
	}

	out := &models.SegmentWithCriteria{Criteria: []models.Criteria{}}
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		seg := &models.Segment{Event: event}
		if err := tx.Segments.Create(ctx, seg); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return newError(EntitySegment, CodeDuplicateEvent, "Segment with event %q already exists", event)
			}
			return err
		}
		out.Segment = *seg

		for i := range inputs {
			c := inputs[i]
			c.SegmentID = seg.ID
			if err := tx.Criteria.Create(ctx, &c); err != nil {
				return err
			}
			out.Criteria = append(out.Criteria, c)
		}
		return nil
	})
	if err != nil {
		return nil, wrap(EntitySegment, CodeCreateFailed, "create segment", err)
	}

	slog.Info("segment created", "segment_id", out.Segment.ID, "event", event, "criteria", len(out.Criteria))
	return out, nil
}

func (s *SegmentService) List(ctx context.Context, desc bool) ([]models.Segment, error) {
	list, err := s.store.Segments.List(ctx, repository.ListOptions{Desc: desc})
	if err != nil {
		return nil, wrap(EntitySegment, CodeFetchFailed, "fetch segments", err)
	}
	return list, nil
}

func (s *SegmentService) GetByID(ctx context.Context, id int64) (*models.Segment, error) {
	if err := requireID(EntitySegment, CodeInvalidID, "Segment ID", id); err != nil {
		return nil, err
	}
	seg, err := s.store.Segments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, segmentNotFound(id)
		}
		return nil, wrap(EntitySegment, CodeFetchFailed, "fetch segment", err)
	}
	return seg, nil
}

func (s *SegmentService) GetByEvent(ctx context.Context, event string) (*models.Segment, error) {
	event, err := validateText(EntitySegment, CodeInvalidEvent, "Event name", event)
	if err != nil {
		return nil, err
	}
	seg, err := s.store.Segments.GetByEvent(ctx, event)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(EntitySegment, CodeNotFound, "Segment with event %q not found", event)
		}
		return nil, wrap(EntitySegment, CodeFetchFailed, "fetch segment", err)
	}
	return seg, nil
}

// Update renames a segment. A request without an event returns the segment unchanged.
func (s *SegmentService) Update(ctx context.Context, id int64, req models.UpdateSegmentRequest) (*models.Segment, error) {
	if req.Event == nil {
		return s.GetByID(ctx, id)
	}
	if err := requireID(EntitySegment, CodeInvalidID, "Segment ID", id); err != nil {
		return nil, err
	}
	event, err := validateText(EntitySegment, CodeInvalidEvent, "Event name", *req.Event)
	if err != nil {
		return nil, err
	}

	seg, err := s.store.Segments.UpdateEvent(ctx, id, event)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, segmentNotFound(id)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, newError(EntitySegment, CodeDuplicateEvent, "Segment with event %q already exists", event)
		}
		return nil, wrap(EntitySegment, CodeUpdateFailed, "update segment", err)
	}
	return seg, nil
}

// Delete removes a segment together with its criteria and their scores
func (s *SegmentService) Delete(ctx context.Context, id int64) error {
	if err := requireID(EntitySegment, CodeInvalidID, "Segment ID", id); err != nil {
		return err
	}

	var scores, criteria int64
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		if scores, err = tx.Scores.DeleteBySegment(ctx, id); err != nil {
			return err
		}
		if criteria, err = tx.Criteria.DeleteBySegment(ctx, id); err != nil {
			return err
		}
		if err := tx.Segments.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return segmentNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrap(EntitySegment, CodeDeleteFailed, "delete segment", err)
	}

	slog.Info("segment deleted", "segment_id", id, "criteria", criteria, "scores", scores)
	return nil
}

func segmentNotFound(id int64) error {
	return newError(EntitySegment, CodeNotFound, "Segment with ID %d not found", id)
}
