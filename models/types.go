package models

import "time"

// User role constants
const (
	RoleOrganizer = "organizer"
	RoleJudge     = "judge"
)

// Participant category constants
const (
	CategoryMR = "MR"
	CategoryMS = "MS"
)

// List ordering
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Nil fields are left unchanged
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type CreateParticipantRequest struct {
	Number   int64  `json:"number"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
	Note     string `json:"note"`
}

type UpdateParticipantRequest struct {
	Number   *int64  `json:"number,omitempty"`
	Fullname *string `json:"fullname,omitempty"`
	Role     *string `json:"role,omitempty"`
	Note     *string `json:"note,omitempty"`
}

type CriteriaInput struct {
	Name     string `json:"name"`
	MaxScore *int   `json:"maxscore,omitempty"`
}

type CreateSegmentRequest struct {
	Event    string          `json:"event"`
	Criteria []CriteriaInput `json:"criteria,omitempty"`
}

type UpdateSegmentRequest struct {
	Event *string `json:"event,omitempty"`
}

type CreateCriteriaRequest struct {
	SegmentID int64  `json:"segment_id"`
	Name      string `json:"name"`
	MaxScore  *int   `json:"maxscore,omitempty"`
}

type UpdateCriteriaRequest struct {
	Name     *string `json:"name,omitempty"`
	MaxScore *int    `json:"maxscore,omitempty"`
}

// Score is required; a nil pointer means the field was absent or null
type UpsertScoreRequest struct {
	ParticipantID int64    `json:"participant_id"`
	CriteriaID    int64    `json:"criteria_id"`
	Score         *float64 `json:"score"`
}

// criteria_id -> score; null values are rejected
type SubmitScoresRequest struct {
	Scores map[int64]*float64 `json:"scores"`
}

// Response types

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type SegmentWithCriteria struct {
	Segment  Segment    `json:"segment"`
	Criteria []Criteria `json:"criteria"`
}

type SubmitScoresResponse struct {
	Scores []Score `json:"scores"`
	Total  Total   `json:"total"`
}

type JudgeSheet struct {
	SegmentID int64      `json:"segment_id"`
	Criteria  []Criteria `json:"criteria"`
	Scores    []ScoreRow `json:"scores"`
	Totals    []Total    `json:"totals"`
}

type Leaderboard struct {
	Segment   Segment    `json:"segment"`
	MaxTotal  float64    `json:"max_total"`
	Standings []Standing `json:"standings"`
}

// Domain types

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash, never exposed
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Participant struct {
	ID        int64     `json:"id"`
	Number    int64     `json:"number"`
	Fullname  string    `json:"fullname"`
	Role      string    `json:"role"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Segment struct {
	ID        int64     `json:"id"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}

type Criteria struct {
	ID        int64     `json:"id"`
	SegmentID int64     `json:"segment_id"`
	Name      string    `json:"name"`
	MaxScore  int       `json:"maxscore"`
	CreatedAt time.Time `json:"created_at"`
}

type Score struct {
	ID            int64     `json:"id"`
	ParticipantID int64     `json:"participant_id"`
	CriteriaID    int64     `json:"criteria_id"`
	UserID        int64     `json:"user_id"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ScoreRow is a score joined with its criterion
type ScoreRow struct {
	ScoreID       int64     `json:"score_id"`
	ParticipantID int64     `json:"participant_id"`
	CriteriaID    int64     `json:"criteria_id"`
	CriteriaName  string    `json:"criteria_name"`
	MaxScore      int       `json:"maxscore"`
	Score         float64   `json:"score"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Total is the flat sum of one participant's scores within a segment
type Total struct {
	ParticipantID int64             `json:"participant_id"`
	SegmentID     int64             `json:"segment_id"`
	Scores        map[int64]float64 `json:"scores"`
	Total         float64           `json:"total"`
	MaxTotal      float64           `json:"max_total"`
	Percentage    float64           `json:"percentage"`
}

type Standing struct {
	Rank          int     `json:"rank"` // 1-indexed, ties share a rank
	ParticipantID int64   `json:"participant_id"`
	Number        int64   `json:"number"`
	Fullname      string  `json:"fullname"`
	Role          string  `json:"role"`
	Total         float64 `json:"total"`
	JudgeCount    int     `json:"judge_count"`
	MaxTotal      float64 `json:"max_total"`
	Percentage    float64 `json:"percentage"`
}

type ParticipantStats struct {
	Total   int `json:"total"`
	MRCount int `json:"mr_count"`
	MSCount int `json:"ms_count"`
}

type UserStats struct {
	Total          int `json:"total"`
	JudgeCount     int `json:"judge_count"`
	OrganizerCount int `json:"organizer_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
