// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pageant-tally API.

# Route Registration

NewRouter builds the services and handlers and returns a configured
http.ServeMux:

	mux := router.NewRouter(db, cfg)

# Access Levels

Every route except /health and / is logged. Protected routes expect an
"Authorization: Bearer <token>" header obtained from POST /auth/login.

  - public: no session
  - signed in: any valid session
  - organizer: session with role organizer
  - judge: session with role judge

Missing or invalid tokens get 401; the wrong role gets 403.

# Endpoints

Public:

	GET  /health
	POST /auth/login

Signed in:

	GET /auth/me
	GET, DELETE /scores/{id} (organizers, or the judge who owns the score)
	GET /participants, /participants/stats, /participants/{id}
	GET /participants/by-number/{number}
	GET /segments, /segments/by-event?event=, /segments/{id}
	GET /segments/{id}/criteria
	GET /criteria, /criteria/{id}

Organizer:

	GET, POST          /users
	GET                /users/stats, /users/by-username/{username}
	GET, PUT, DELETE   /users/{id}
	POST               /participants, /segments, /criteria
	PUT, DELETE        /participants/{id}, /segments/{id}, /criteria/{id}
	GET                /segments/{id}/leaderboard
	GET                /scores, /scores?participant_id=

Judge:

	PUT  /scores
	POST /segments/{id}/participants/{pid}/scores
	GET  /segments/{id}/participants/{pid}/total
	GET  /segments/{id}/scores/me
*/
package router
