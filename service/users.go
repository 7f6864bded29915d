// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/danielhkuo/pageant-tally/auth"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/repository"
)

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

// Create registers a user with a bcrypt-hashed password. Role defaults to organizer.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, newError(EntityUser, CodeInvalidPassword, "Password is required")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleOrganizer
	}
	if err := validateUserRole(role); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, wrap(EntityUser, CodeCreateFailed, "create user", err)
	}

	u := &models.User{Username: username, Password: hash, Role: role}
	if err := s.store.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateUsername(username)
		}
		return nil, wrap(EntityUser, CodeCreateFailed, "create user", err)
	}

	slog.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

func (s *UserService) List(ctx context.Context, opts repository.ListOptions) ([]models.User, error) {
	if opts.Role != "" {
		if err := validateUserRole(opts.Role); err != nil {
			return nil, err
		}
	}
	list, err := s.store.Users.List(ctx, opts)
	if err != nil {
		return nil, wrap(EntityUser, CodeFetchFailed, "fetch users", err)
	}
	return list, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if err := requireID(EntityUser, CodeInvalidID, "User ID", id); err != nil {
		return nil, err
	}
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, wrap(EntityUser, CodeFetchFailed, "fetch user", err)
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, newError(EntityUser, CodeInvalidUsername, "Username is required")
	}
	u, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(EntityUser, CodeNotFound, "User with username %q not found", username)
		}
		return nil, wrap(EntityUser, CodeFetchFailed, "fetch user", err)
	}
	return u, nil
}

// Update changes a user's fields. An empty password leaves the stored hash alone.
func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if err := requireID(EntityUser, CodeInvalidID, "User ID", id); err != nil {
		return nil, err
	}

	var upd repository.UserUpdate
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		upd.Username = &username
	}
	if req.Password != nil && *req.Password != "" {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, wrap(EntityUser, CodeUpdateFailed, "update user", err)
		}
		upd.Password = &hash
	}
	if req.Role != nil {
		if err := validateUserRole(*req.Role); err != nil {
			return nil, err
		}
		upd.Role = req.Role
	}

	u, err := s.store.Users.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, userNotFound(id)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, duplicateUsername(*upd.Username)
		}
		return nil, wrap(EntityUser, CodeUpdateFailed, "update user", err)
	}
	return u, nil
}

// Delete removes a user and every score they recorded
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := requireID(EntityUser, CodeInvalidID, "User ID", id); err != nil {
		return err
	}

	var scores int64
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		if scores, err = tx.Scores.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Users.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrap(EntityUser, CodeDeleteFailed, "delete user", err)
	}

	slog.Info("user deleted", "user_id", id, "scores", scores)
	return nil
}

func (s *UserService) Stats(ctx context.Context) (models.UserStats, error) {
	stats, err := s.store.Users.Stats(ctx)
	if err != nil {
		return models.UserStats{}, wrap(EntityUser, CodeStatsFailed, "fetch user stats", err)
	}
	return stats, nil
}

// EnsureOrganizer creates an organizer account when none exists yet and
// reports whether it did.
func (s *UserService) EnsureOrganizer(ctx context.Context, username, password string) (bool, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return false, err
	}
	if stats.OrganizerCount > 0 {
		return false, nil
	}

	_, err = s.Create(ctx, models.CreateUserRequest{
		Username: username,
		Password: password,
		Role:     models.RoleOrganizer,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func userNotFound(id int64) error {
	return newError(EntityUser, CodeNotFound, "User with ID %d not found", id)
}

func duplicateUsername(username string) error {
	return newError(EntityUser, CodeDuplicateUsername, "User with username %q already exists", username)
}
