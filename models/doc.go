// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - LoginRequest: username, password
  - CreateUserRequest, UpdateUserRequest
  - CreateParticipantRequest, UpdateParticipantRequest
  - CreateSegmentRequest (with optional initial criteria), UpdateSegmentRequest
  - CreateCriteriaRequest, UpdateCriteriaRequest
  - UpsertScoreRequest: one score
  - SubmitScoresRequest: criteria_id → score for one participant

Update requests use pointer fields; nil means unchanged.

# Response Types

  - LoginResponse: token, expires_at, user
  - SegmentWithCriteria
  - SubmitScoresResponse: saved scores and the judge's total
  - JudgeSheet: a judge's scores and totals for a segment
  - Leaderboard: ranked standings for a segment
  - ErrorResponse: error, code, message

# Domain Types

  - User: password hash is never serialized
  - Participant, Segment, Criteria, Score
  - Total: flat sum of one participant's scores
  - Standing: one leaderboard row

# Constants

	RoleOrganizer = "organizer"
	RoleJudge     = "judge"

	CategoryMR = "MR"
	CategoryMS = "MS"
*/
package models
