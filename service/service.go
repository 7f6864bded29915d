// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"

	"github.com/danielhkuo/pageant-tally/cliparse"
	"github.com/danielhkuo/pageant-tally/repository"
)

// Services bundles every service over one database
type Services struct {
	Users        *UserService
	Participants *ParticipantService
	Segments     *SegmentService
	Criteria     *CriteriaService
	Scores       *ScoreService
	Auth         *AuthService
}

func New(db *sql.DB, cfg cliparse.Config) *Services {
	store := repository.NewStore(db)
	return &Services{
		Users:        NewUserService(store),
		Participants: NewParticipantService(store),
		Segments:     NewSegmentService(store),
		Criteria:     NewCriteriaService(store),
		Scores:       NewScoreService(store),
		Auth:         NewAuthService(store, cfg.SessionSecret, cfg.SessionTTL),
	}
}
