// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(status, size, duration_ms). The request id is taken from X-Request-ID or
generated, and echoed back in the response.

# Sessions and Roles

Guard routes with a bearer session token:

	middleware.RequireSession(secret, handler)               // any signed-in user
	middleware.RequireRole(secret, handler, models.RoleJudge) // judges only

Missing or invalid tokens get 401 UNAUTHORIZED; a wrong role gets 403
FORBIDDEN. The parsed session is available via auth.SessionFrom.

# CORS Middleware

Enable cross-origin requests for frontend access. An empty allow-list
admits any origin without credentials:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins, mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, middleware.CodeBadRequest, "Invalid JSON")

Service failures are mapped by code (INVALID_* 400, INVALID_CREDENTIALS 401,
FORBIDDEN 403, NOT_FOUND 404, DUPLICATE_* 409, anything else 500):

	if err != nil {
		middleware.ServiceError(w, err)
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request and login logs.
*/
package middleware
