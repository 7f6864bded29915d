// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/pageant-tally/middleware"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/service"
)

type ScoreHandler struct {
	scores *service.ScoreService
}

func NewScoreHandler(scores *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// Upsert handles PUT /scores
func (h *ScoreHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req models.UpsertScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	score, err := h.scores.Upsert(r.Context(), session, req)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, score)
}

// Get handles GET /scores/{id}
func (h *ScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "score ID")
	if !ok {
		return
	}

	score, err := h.scores.GetByID(r.Context(), session, id)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, score)
}

// List handles GET /scores with an optional ?participant_id= filter
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("participant_id")
	if raw == "" {
		list, err := h.scores.List(r.Context(), listOptions(r))
		if err != nil {
			middleware.ServiceError(w, err)
			return
		}
		middleware.JSONResponse(w, http.StatusOK, list)
		return
	}

	participantID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, string(service.CodeInvalidParticipantID), "Invalid participant ID")
		return
	}
	list, err := h.scores.ListByParticipant(r.Context(), participantID)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Delete handles DELETE /scores/{id}
func (h *ScoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "score ID")
	if !ok {
		return
	}

	if err := h.scores.Delete(r.Context(), session, id); err != nil {
		middleware.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /segments/{id}/participants/{pid}/scores
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	segmentID, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}
	participantID, ok := pathID(w, r, "pid", "participant ID")
	if !ok {
		return
	}

	var req models.SubmitScoresRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	resp, err := h.scores.Submit(r.Context(), session, segmentID, participantID, req.Scores)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Total handles GET /segments/{id}/participants/{pid}/total
func (h *ScoreHandler) Total(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	segmentID, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}
	participantID, ok := pathID(w, r, "pid", "participant ID")
	if !ok {
		return
	}

	total, err := h.scores.ParticipantTotal(r.Context(), session, segmentID, participantID)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, total)
}

// Sheet handles GET /segments/{id}/scores/me
func (h *ScoreHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	segmentID, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}

	sheet, err := h.scores.JudgeSheet(r.Context(), session, segmentID)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sheet)
}

// Leaderboard handles GET /segments/{id}/leaderboard
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	segmentID, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}

	board, err := h.scores.Leaderboard(r.Context(), segmentID)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, board)
}
