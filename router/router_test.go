// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())
	db.Close()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "pageant-tally API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	// Unauthenticated requests stop at 401, which still proves the route exists
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/auth/login"},
		{"GET", "/auth/me"},

		{"GET", "/users"},
		{"POST", "/users"},
		{"GET", "/users/stats"},
		{"GET", "/users/by-username/admin"},
		{"GET", "/users/1"},
		{"PUT", "/users/1"},
		{"DELETE", "/users/1"},

		{"GET", "/participants"},
		{"POST", "/participants"},
		{"GET", "/participants/stats"},
		{"GET", "/participants/by-number/1"},
		{"GET", "/participants/1"},
		{"PUT", "/participants/1"},
		{"DELETE", "/participants/1"},

		{"GET", "/segments"},
		{"POST", "/segments"},
		{"GET", "/segments/by-event"},
		{"GET", "/segments/1"},
		{"GET", "/segments/1/criteria"},
		{"PUT", "/segments/1"},
		{"DELETE", "/segments/1"},

		{"GET", "/criteria"},
		{"POST", "/criteria"},
		{"GET", "/criteria/1"},
		{"PUT", "/criteria/1"},
		{"DELETE", "/criteria/1"},

		{"PUT", "/scores"},
		{"GET", "/scores"},
		{"GET", "/scores?participant_id=1"},
		{"GET", "/scores/1"},
		{"DELETE", "/scores/1"},
		{"POST", "/segments/1/participants/1/scores"},
		{"GET", "/segments/1/participants/1/total"},
		{"GET", "/segments/1/scores/me"},
		{"GET", "/segments/1/leaderboard"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed || w.Code == http.StatusNotFound {
				t.Errorf("Route %s %s returned %d, expected route handler to exist", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},       // Only GET is defined
		{"PATCH", "/scores"},      // GET and PUT only
		{"PUT", "/scores/1"},      // GET and DELETE only
		{"POST", "/segments/1"},   // GET, PUT, DELETE only
		{"DELETE", "/auth/login"}, // Only POST is defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAccessControl(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	organizer := testutil.CreateTestUser(t, db, "admin", models.RoleOrganizer)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)

	testCases := []struct {
		name           string
		method         string
		path           string
		headers        map[string]string
		expectedStatus int
	}{
		{"no token", "GET", "/segments", nil, http.StatusUnauthorized},
		{"bad token", "GET", "/segments", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"judge reads segments", "GET", "/segments", testutil.AuthHeader(t, cfg, judge), http.StatusOK},
		{"judge creates segment", "POST", "/segments", testutil.AuthHeader(t, cfg, judge), http.StatusForbidden},
		{"judge reads leaderboard", "GET", "/segments/1/leaderboard", testutil.AuthHeader(t, cfg, judge), http.StatusForbidden},
		{"organizer lists users", "GET", "/users", testutil.AuthHeader(t, cfg, organizer), http.StatusOK},
		{"organizer submits score", "PUT", "/scores", testutil.AuthHeader(t, cfg, organizer), http.StatusForbidden},
		{"judge lists all scores", "GET", "/scores", testutil.AuthHeader(t, cfg, judge), http.StatusForbidden},
		{"organizer lists all scores", "GET", "/scores", testutil.AuthHeader(t, cfg, organizer), http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}
}

// TestScoringWorkflow walks one segment from setup through judging to the
// organizer's leaderboard using only the HTTP API
func TestScoringWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	testutil.CreateTestUser(t, db, "admin", models.RoleOrganizer)

	do := func(method, path string, body interface{}, token string, expected int, out interface{}) {
		t.Helper()
		var headers map[string]string
		if token != "" {
			headers = map[string]string{"Authorization": "Bearer " + token}
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		testutil.AssertStatus(t, w, expected)
		if out != nil {
			testutil.AssertJSON(t, w, out)
		}
	}
	login := func(username, password string) string {
		t.Helper()
		var resp models.LoginResponse
		do("POST", "/auth/login", models.LoginRequest{Username: username, Password: password}, "", http.StatusOK, &resp)
		return resp.Token
	}

	adminToken := login("admin", testutil.TestPassword)

	// Organizer sets up the segment, contestants, and judges
	max60, max40 := 60, 40
	var seg models.SegmentWithCriteria
	do("POST", "/segments", models.CreateSegmentRequest{
		Event:    "Talent",
		Criteria: []models.CriteriaInput{{Name: "Skill", MaxScore: &max60}, {Name: "Impact", MaxScore: &max40}},
	}, adminToken, http.StatusCreated, &seg)

	var p1, p2 models.Participant
	do("POST", "/participants", models.CreateParticipantRequest{Number: 1, Fullname: "Juan Reyes", Role: "MR"}, adminToken, http.StatusCreated, &p1)
	do("POST", "/participants", models.CreateParticipantRequest{Number: 2, Fullname: "Maria Santos", Role: "MS"}, adminToken, http.StatusCreated, &p2)

	for _, name := range []string{"judge_one", "judge_two"} {
		do("POST", "/users", models.CreateUserRequest{Username: name, Password: "judgepass", Role: "judge"}, adminToken, http.StatusCreated, nil)
	}

	// Judges score
	segPath := "/segments/" + strconv.FormatInt(seg.Segment.ID, 10)
	skill, impact := seg.Criteria[0].ID, seg.Criteria[1].ID
	sheets := map[string]map[int64]map[int64]float64{
		"judge_one": {p1.ID: {skill: 50, impact: 30}, p2.ID: {skill: 55, impact: 35}},
		"judge_two": {p1.ID: {skill: 40, impact: 20}, p2.ID: {skill: 45, impact: 25}},
	}
	for judge, byParticipant := range sheets {
		token := login(judge, "judgepass")
		for pid, scores := range byParticipant {
			body := map[string]interface{}{"scores": scoreBody(scores)}
			path := segPath + "/participants/" + strconv.FormatInt(pid, 10) + "/scores"
			do("POST", path, body, token, http.StatusOK, nil)
		}
	}

	// A judge re-scores; the earlier value is replaced, not added
	judgeToken := login("judge_one", "judgepass")
	rescore := 60.0
	do("PUT", "/scores", models.UpsertScoreRequest{ParticipantID: p1.ID, CriteriaID: skill, Score: &rescore}, judgeToken, http.StatusOK, nil)

	var total models.Total
	do("GET", segPath+"/participants/"+strconv.FormatInt(p1.ID, 10)+"/total", nil, judgeToken, http.StatusOK, &total)
	if total.Total != 90 {
		t.Errorf("Expected judge_one total for #1 to be 90, got %v", total.Total)
	}

	// The organizer sees all four of #1's scores, one per judge and criterion
	var p1Scores []models.Score
	do("GET", "/scores?participant_id="+strconv.FormatInt(p1.ID, 10), nil, adminToken, http.StatusOK, &p1Scores)
	if len(p1Scores) != 4 {
		t.Fatalf("Expected 4 scores for #1, got %d", len(p1Scores))
	}

	// judge_two cannot touch judge_one's score
	var mine models.Score
	for _, s := range p1Scores {
		if s.CriteriaID == skill && s.Score == 60 {
			mine = s
		}
	}
	if mine.ID == 0 {
		t.Fatalf("Expected judge_one's rescored skill entry in %+v", p1Scores)
	}
	scorePath := "/scores/" + strconv.FormatInt(mine.ID, 10)
	otherToken := login("judge_two", "judgepass")
	do("GET", scorePath, nil, otherToken, http.StatusForbidden, nil)
	do("DELETE", scorePath, nil, otherToken, http.StatusForbidden, nil)
	do("GET", scorePath, nil, judgeToken, http.StatusOK, nil)

	// Organizer reads the leaderboard: #2 = 160, #1 = 150
	var board models.Leaderboard
	do("GET", segPath+"/leaderboard", nil, adminToken, http.StatusOK, &board)
	if len(board.Standings) != 2 {
		t.Fatalf("Expected 2 standings, got %d", len(board.Standings))
	}
	if board.MaxTotal != 100 {
		t.Errorf("Expected max total 100, got %v", board.MaxTotal)
	}
	first, second := board.Standings[0], board.Standings[1]
	if first.ParticipantID != p2.ID || first.Total != 160 || first.Rank != 1 {
		t.Errorf("Expected #2 first with 160, got %+v", first)
	}
	if second.ParticipantID != p1.ID || second.Total != 150 || second.Rank != 2 {
		t.Errorf("Expected #1 second with 150, got %+v", second)
	}
	if first.JudgeCount != 2 || first.Percentage != 80 {
		t.Errorf("Expected 2 judges at 80%%, got %d at %v%%", first.JudgeCount, first.Percentage)
	}

	// A judge withdraws their own score
	do("DELETE", scorePath, nil, judgeToken, http.StatusNoContent, nil)
	do("GET", scorePath, nil, adminToken, http.StatusNotFound, nil)

	// Deleting the segment takes its scores with it
	do("DELETE", segPath, nil, adminToken, http.StatusNoContent, nil)
	do("GET", segPath, nil, adminToken, http.StatusNotFound, nil)
}

// scoreBody renders criteria ids as JSON object keys
func scoreBody(scores map[int64]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for id, v := range scores {
		out[strconv.FormatInt(id, 10)] = v
	}
	return out
}
