// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pageant-tally/cliparse"
	"github.com/danielhkuo/pageant-tally/handlers"
	"github.com/danielhkuo/pageant-tally/middleware"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/service"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()
	svc := service.New(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Users)
	participantHandler := handlers.NewParticipantHandler(svc.Participants)
	segmentHandler := handlers.NewSegmentHandler(svc.Segments, svc.Criteria)
	criteriaHandler := handlers.NewCriteriaHandler(svc.Criteria)
	scoreHandler := handlers.NewScoreHandler(svc.Scores)

	// Access levels
	public := middleware.WithLogging
	signedIn := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(cfg.SessionSecret, h))
	}
	organizer := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(cfg.SessionSecret, h, models.RoleOrganizer))
	}
	judge := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(cfg.SessionSecret, h, models.RoleJudge))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/login", public(authHandler.Login))
	mux.HandleFunc("GET /auth/me", signedIn(authHandler.Me))

	// User management (organizers)
	mux.HandleFunc("GET /users", organizer(userHandler.List))
	mux.HandleFunc("POST /users", organizer(userHandler.Create))
	mux.HandleFunc("GET /users/stats", organizer(userHandler.Stats))
	mux.HandleFunc("GET /users/by-username/{username}", organizer(userHandler.GetByUsername))
	mux.HandleFunc("GET /users/{id}", organizer(userHandler.Get))
	mux.HandleFunc("PUT /users/{id}", organizer(userHandler.Update))
	mux.HandleFunc("DELETE /users/{id}", organizer(userHandler.Delete))

	// Participants
	mux.HandleFunc("GET /participants", signedIn(participantHandler.List))
	mux.HandleFunc("POST /participants", organizer(participantHandler.Create))
	mux.HandleFunc("GET /participants/stats", signedIn(participantHandler.Stats))
	mux.HandleFunc("GET /participants/by-number/{number}", signedIn(participantHandler.GetByNumber))
	mux.HandleFunc("GET /participants/{id}", signedIn(participantHandler.Get))
	mux.HandleFunc("PUT /participants/{id}", organizer(participantHandler.Update))
	mux.HandleFunc("DELETE /participants/{id}", organizer(participantHandler.Delete))

	// Segments
	mux.HandleFunc("GET /segments", signedIn(segmentHandler.List))
	mux.HandleFunc("POST /segments", organizer(segmentHandler.Create))
	mux.HandleFunc("GET /segments/by-event", signedIn(segmentHandler.GetByEvent))
	mux.HandleFunc("GET /segments/{id}", signedIn(segmentHandler.Get))
	mux.HandleFunc("GET /segments/{id}/criteria", signedIn(segmentHandler.Criteria))
	mux.HandleFunc("PUT /segments/{id}", organizer(segmentHandler.Update))
	mux.HandleFunc("DELETE /segments/{id}", organizer(segmentHandler.Delete))

	// Criteria
	mux.HandleFunc("GET /criteria", signedIn(criteriaHandler.List))
	mux.HandleFunc("POST /criteria", organizer(criteriaHandler.Create))
	mux.HandleFunc("GET /criteria/{id}", signedIn(criteriaHandler.Get))
	mux.HandleFunc("PUT /criteria/{id}", organizer(criteriaHandler.Update))
	mux.HandleFunc("DELETE /criteria/{id}", organizer(criteriaHandler.Delete))

	// Scoring (judges)
	mux.HandleFunc("PUT /scores", judge(scoreHandler.Upsert))
	mux.HandleFunc("GET /scores/{id}", signedIn(scoreHandler.Get))
	mux.HandleFunc("DELETE /scores/{id}", signedIn(scoreHandler.Delete))
	mux.HandleFunc("POST /segments/{id}/participants/{pid}/scores", judge(scoreHandler.Submit))
	mux.HandleFunc("GET /segments/{id}/participants/{pid}/total", judge(scoreHandler.Total))
	mux.HandleFunc("GET /segments/{id}/scores/me", judge(scoreHandler.Sheet))

	// Results (organizers)
	mux.HandleFunc("GET /scores", organizer(scoreHandler.List))
	mux.HandleFunc("GET /segments/{id}/leaderboard", organizer(scoreHandler.Leaderboard))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pageant-tally API v1"))
	})

	return mux
}
