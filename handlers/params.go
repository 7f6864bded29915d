// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/pageant-tally/auth"
	"github.com/danielhkuo/pageant-tally/middleware"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/repository"
	"github.com/danielhkuo/pageant-tally/service"
)

// pathID parses a positive integer path value. On failure it writes a 400
// response and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, string(service.CodeInvalidID), "Invalid "+label)
		return 0, false
	}
	return id, true
}

// listOptions reads ?order= and ?role= from the query string
func listOptions(r *http.Request) repository.ListOptions {
	q := r.URL.Query()
	return repository.ListOptions{
		Desc: q.Get("order") == models.OrderDesc,
		Role: q.Get("role"),
	}
}

// invalidJSON writes the response for an unparseable request body
func invalidJSON(w http.ResponseWriter) {
	middleware.ErrorResponse(w, http.StatusBadRequest, middleware.CodeBadRequest, "Invalid JSON")
}

// sessionFrom returns the caller's session. Routes are wrapped in
// RequireSession, so a missing session is a wiring error.
func sessionFrom(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	s, ok := auth.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, middleware.CodeUnauthorized, "Authentication required")
	}
	return s, ok
}
