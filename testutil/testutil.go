// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pageant-tally/auth"
	"github.com/danielhkuo/pageant-tally/cliparse"
	"github.com/danielhkuo/pageant-tally/db"
	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/repository"
)

// TestDBURL is a private in-memory SQLite database; every SetupTestDB call
// gets its own.
const TestDBURL = "file::memory:"

// TestPassword is the password of every fixture user
const TestPassword = "test-pass"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", db.SQLiteDSN(TestDBURL))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// The in-memory database lives and dies with its single connection
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   TestDBURL,
		DatabaseType:  cliparse.DatabaseSQLite,
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
	}
}

// CreateTestUser inserts a user with TestPassword and the given role
func CreateTestUser(t *testing.T, conn *sql.DB, username, role string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u := &models.User{Username: username, Password: hash, Role: role}
	if err := repository.NewStore(conn).Users.Create(context.Background(), u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return *u
}

// CreateTestParticipant inserts a participant with the given number and category
func CreateTestParticipant(t *testing.T, conn *sql.DB, number int64, role string) models.Participant {
	t.Helper()

	p := &models.Participant{Number: number, Fullname: "Contestant Test", Role: role}
	if err := repository.NewStore(conn).Participants.Create(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
	return *p
}

// CreateTestSegment inserts a segment with no criteria
func CreateTestSegment(t *testing.T, conn *sql.DB, event string) models.Segment {
	t.Helper()

	s := &models.Segment{Event: event}
	if err := repository.NewStore(conn).Segments.Create(context.Background(), s); err != nil {
		t.Fatalf("Failed to create test segment: %v", err)
	}
	return *s
}

// CreateTestCriteria adds a criterion to a segment
func CreateTestCriteria(t *testing.T, conn *sql.DB, segmentID int64, name string, maxScore int) models.Criteria {
	t.Helper()

	c := &models.Criteria{SegmentID: segmentID, Name: name, MaxScore: maxScore}
	if err := repository.NewStore(conn).Criteria.Create(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test criteria: %v", err)
	}
	return *c
}

// CreateTestScore records a judge's score directly
func CreateTestScore(t *testing.T, conn *sql.DB, participantID, criteriaID, userID int64, score float64) models.Score {
	t.Helper()

	s, err := repository.NewStore(conn).Scores.Upsert(context.Background(), participantID, criteriaID, userID, score)
	if err != nil {
		t.Fatalf("Failed to create test score: %v", err)
	}
	return *s
}

// SessionFor returns the session of an existing user
func SessionFor(u models.User) auth.Session {
	return auth.Session{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// AuthHeader returns an Authorization header carrying a valid token for u
func AuthHeader(t *testing.T, cfg cliparse.Config, u models.User) map[string]string {
	t.Helper()

	token, _, err := auth.IssueSession(SessionFor(u), cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
