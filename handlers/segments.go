// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pageant-tally/middleware"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/service"
)

type SegmentHandler struct {
	segments *service.SegmentService
	criteria *service.CriteriaService
}

func NewSegmentHandler(segments *service.SegmentService, criteria *service.CriteriaService) *SegmentHandler {
	return &SegmentHandler{segments: segments, criteria: criteria}
}

// Create handles POST /segments. The body may include initial criteria.
func (h *SegmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSegmentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	out, err := h.segments.Create(r.Context(), req)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, out)
}

// List handles GET /segments?order=desc
func (h *SegmentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.segments.List(r.Context(), listOptions(r).Desc)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Get handles GET /segments/{id}
func (h *SegmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}

	seg, err := h.segments.GetByID(r.Context(), id)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, seg)
}

// GetByEvent handles GET /segments/by-event?event=Swimwear
func (h *SegmentHandler) GetByEvent(w http.ResponseWriter, r *http.Request) {
	seg, err := h.segments.GetByEvent(r.Context(), r.URL.Query().Get("event"))
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, seg)
}

// Criteria handles GET /segments/{id}/criteria
func (h *SegmentHandler) Criteria(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}

	list, err := h.criteria.ListBySegment(r.Context(), id)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Update handles PUT /segments/{id}
func (h *SegmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}

	var req models.UpdateSegmentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	seg, err := h.segments.Update(r.Context(), id, req)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, seg)
}

// Delete handles DELETE /segments/{id}; criteria and scores go with it
func (h *SegmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "segment ID")
	if !ok {
		return
	}

	if err := h.segments.Delete(r.Context(), id); err != nil {
		middleware.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
