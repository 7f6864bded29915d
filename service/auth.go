// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/pageant-tally/auth"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/repository"
)

type AuthService struct {
	store  *repository.Store
	secret string
	ttl    time.Duration
}

func NewAuthService(store *repository.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{store: store, secret: secret, ttl: ttl}
}

// Compared against when the username is unknown so both failure paths cost a bcrypt round.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("pageant-tally-dummy")
	return hash
})

func invalidCredentials() error {
	return newError(EntityAuth, CodeInvalidCredentials, "Invalid username or password")
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords fail with the same message.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, newError(EntityAuth, CodeInvalidCredentials, "Username and password are required")
	}

	u, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = auth.CheckPassword(dummyHash(), req.Password)
			slog.Warn("login failed", "username", username, "reason", "unknown user")
			return nil, invalidCredentials()
		}
		return nil, wrap(EntityAuth, CodeFetchFailed, "log in", err)
	}

	if err := auth.CheckPassword(u.Password, req.Password); err != nil {
		slog.Warn("login failed", "username", username, "reason", "wrong password")
		return nil, invalidCredentials()
	}

	session := auth.Session{UserID: u.ID, Username: u.Username, Role: u.Role}
	token, expiresAt, err := auth.IssueSession(session, s.secret, s.ttl)
	if err != nil {
		return nil, wrap(EntityAuth, CodeFetchFailed, "log in", err)
	}

	slog.Info("login succeeded", "user_id", u.ID, "role", u.Role)
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: *u}, nil
}

// Me returns the account behind a session
func (s *AuthService) Me(ctx context.Context, session auth.Session) (*models.User, error) {
	u, err := s.store.Users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(session.UserID)
		}
		return nil, wrap(EntityAuth, CodeFetchFailed, "fetch user", err)
	}
	return u, nil
}

// ParseToken validates a session token
func (s *AuthService) ParseToken(token string) (auth.Session, error) {
	return auth.ParseSession(token, s.secret)
}
