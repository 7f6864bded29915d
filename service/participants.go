// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/repository"
)

type ParticipantService struct {
	store *repository.Store
}

func NewParticipantService(store *repository.Store) *ParticipantService {
	return &ParticipantService{store: store}
}

func (s *ParticipantService) Create(ctx context.Context, req models.CreateParticipantRequest) (*models.Participant, error) {
	if err := validateParticipantNumber(req.Number); err != nil {
		return nil, err
	}
	fullname, err := validateText(EntityParticipant, CodeInvalidFullname, "Full name", req.Fullname)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.CategoryMR
	}
	if err := validateCategory(role); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(req.Note)
	if err := validateNote(note); err != nil {
		return nil, err
	}

	p := &models.Participant{Number: req.Number, Fullname: fullname, Role: role, Note: note}
	if err := s.store.Participants.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateNumber(req.Number)
		}
		return nil, wrap(EntityParticipant, CodeCreateFailed, "create participant", err)
	}

	slog.Info("participant created", "participant_id", p.ID, "number", p.Number, "role", p.Role)
	return p, nil
}

// List returns participants; a role filter orders them by number
func (s *ParticipantService) List(ctx context.Context, opts repository.ListOptions) ([]models.Participant, error) {
	if opts.Role != "" {
		if err := validateCategory(opts.Role); err != nil {
			return nil, err
		}
	}
	list, err := s.store.Participants.List(ctx, opts)
	if err != nil {
		return nil, wrap(EntityParticipant, CodeFetchFailed, "fetch participants", err)
	}
	return list, nil
}

func (s *ParticipantService) GetByID(ctx context.Context, id int64) (*models.Participant, error) {
	if err := requireID(EntityParticipant, CodeInvalidID, "Participant ID", id); err != nil {
		return nil, err
	}
	p, err := s.store.Participants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, participantNotFound(id)
		}
		return nil, wrap(EntityParticipant, CodeFetchFailed, "fetch participant", err)
	}
	return p, nil
}

func (s *ParticipantService) GetByNumber(ctx context.Context, number int64) (*models.Participant, error) {
	if err := validateParticipantNumber(number); err != nil {
		return nil, err
	}
	p, err := s.store.Participants.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(EntityParticipant, CodeNotFound, "Participant with number %d not found", number)
		}
		return nil, wrap(EntityParticipant, CodeFetchFailed, "fetch participant", err)
	}
	return p, nil
}

func (s *ParticipantService) Update(ctx context.Context, id int64, req models.UpdateParticipantRequest) (*models.Participant, error) {
	if err := requireID(EntityParticipant, CodeInvalidID, "Participant ID", id); err != nil {
		return nil, err
	}

	upd := repository.ParticipantUpdate{Number: req.Number, Role: req.Role}
	if req.Number != nil {
		if err := validateParticipantNumber(*req.Number); err != nil {
			return nil, err
		}
	}
	if req.Fullname != nil {
		fullname, err := validateText(EntityParticipant, CodeInvalidFullname, "Full name", *req.Fullname)
		if err != nil {
			return nil, err
		}
		upd.Fullname = &fullname
	}
	if req.Role != nil {
		if err := validateCategory(*req.Role); err != nil {
			return nil, err
		}
	}
	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if err := validateNote(note); err != nil {
			return nil, err
		}
		upd.Note = &note
	}

	p, err := s.store.Participants.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, participantNotFound(id)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, duplicateNumber(*req.Number)
		}
		return nil, wrap(EntityParticipant, CodeUpdateFailed, "update participant", err)
	}
	return p, nil
}

// Delete removes a participant and every score they received
func (s *ParticipantService) Delete(ctx context.Context, id int64) error {
	if err := requireID(EntityParticipant, CodeInvalidID, "Participant ID", id); err != nil {
		return err
	}

	var scores int64
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		if scores, err = tx.Scores.DeleteByParticipant(ctx, id); err != nil {
			return err
		}
		if err := tx.Participants.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return participantNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrap(EntityParticipant, CodeDeleteFailed, "delete participant", err)
	}

	slog.Info("participant deleted", "participant_id", id, "scores", scores)
	return nil
}

func (s *ParticipantService) Stats(ctx context.Context) (models.ParticipantStats, error) {
	stats, err := s.store.Participants.Stats(ctx)
	if err != nil {
		return models.ParticipantStats{}, wrap(EntityParticipant, CodeStatsFailed, "fetch participant stats", err)
	}
	return stats, nil
}

func participantNotFound(id int64) error {
	return newError(EntityParticipant, CodeNotFound, "Participant with ID %d not found", id)
}

func duplicateNumber(number int64) error {
	return newError(EntityParticipant, CodeDuplicateNumber, "Participant with number %d already exists", number)
}
