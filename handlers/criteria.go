// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pageant-tally/middleware"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/service"
)

type CriteriaHandler struct {
	criteria *service.CriteriaService
}

func NewCriteriaHandler(criteria *service.CriteriaService) *CriteriaHandler {
	return &CriteriaHandler{criteria: criteria}
}

// Create handles POST /criteria
func (h *CriteriaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCriteriaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	c, err := h.criteria.Create(r.Context(), req)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// List handles GET /criteria?order=desc
func (h *CriteriaHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.criteria.List(r.Context(), listOptions(r).Desc)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Get handles GET /criteria/{id}
func (h *CriteriaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "criteria ID")
	if !ok {
		return
	}

	c, err := h.criteria.GetByID(r.Context(), id)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// Update handles PUT /criteria/{id}
func (h *CriteriaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "criteria ID")
	if !ok {
		return
	}

	var req models.UpdateCriteriaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	c, err := h.criteria.Update(r.Context(), id, req)
	if err != nil {
		middleware.ServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// Delete handles DELETE /criteria/{id}
func (h *CriteriaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "criteria ID")
	if !ok {
		return
	}

	if err := h.criteria.Delete(r.Context(), id); err != nil {
		middleware.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
