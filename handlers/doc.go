// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pageant-tally API.

# Handler Types

Each handler is a struct over one or two services:

  - AuthHandler: login and the current session
  - UserHandler: organizer and judge accounts
  - ParticipantHandler: contestants
  - SegmentHandler: segments and their criteria
  - CriteriaHandler: individual criteria
  - ScoreHandler: judge scoring, totals, and leaderboards

	svc := service.New(db, cfg)
	scoreHandler := handlers.NewScoreHandler(svc.Scores)

# Errors

Handlers decode the body, parse path values, and pass everything else to
the service layer. Service errors carry a code that
middleware.ServiceError maps to a status:

	INVALID_CREDENTIALS  → 401
	INVALID_*            → 400
	NOT_FOUND            → 404
	FORBIDDEN            → 403
	DUPLICATE_*          → 409
	anything else        → 500

# Sessions

Scoring handlers read the judge from the request session installed by
middleware.RequireSession. A judge only ever writes and reads their own
scores; organizers may read or delete any score, and the leaderboard sums
every judge.
*/
package handlers
