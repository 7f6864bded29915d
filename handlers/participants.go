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

type ParticipantHandler struct {
	participants *service.ParticipantService
}

func NewParticipantHandler(participants *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

// Create handles POST /participants
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	p, err := h.participants.Create(r.Context(), req)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, p)
}

// List handles GET /participants?order=desc&role=MS
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.participants.List(r.Context(), listOptions(r))
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Get handles GET /participants/{id}
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "participant ID")
	if !ok {
		return
	}

	p, err := h.participants.GetByID(r.Context(), id)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// GetByNumber handles GET /participants/by-number/{number}
func (h *ParticipantHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseInt(r.PathValue("number"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, string(service.CodeInvalidNumber),
			"Participant number must be a positive integer")
		return
	}

	p, err := h.participants.GetByNumber(r.Context(), number)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Update handles PUT /participants/{id}
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "participant ID")
	if !ok {
		return
	}

	var req models.UpdateParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	p, err := h.participants.Update(r.Context(), id, req)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Delete handles DELETE /participants/{id}
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "participant ID")
	if !ok {
		return
	}

	if err := h.participants.Delete(r.Context(), id); err != nil {
		middleware.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /participants/stats
func (h *ParticipantHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.participants.Stats(r.Context())
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}
