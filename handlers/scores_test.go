// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/testutil"
)

func TestUpsertScore(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Evening Gown")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Elegance", 50)
	p := testutil.CreateTestParticipant(t, db, 1, models.CategoryMS)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)

	testCases := []struct {
		name           string
		body           models.UpsertScoreRequest
		expectedStatus int
		expectedCode   string
	}{
		{"valid", models.UpsertScoreRequest{ParticipantID: p.ID, CriteriaID: c.ID, Score: floatPtr(42.5)}, http.StatusOK, ""},
		{"at max", models.UpsertScoreRequest{ParticipantID: p.ID, CriteriaID: c.ID, Score: floatPtr(50)}, http.StatusOK, ""},
		{"above max", models.UpsertScoreRequest{ParticipantID: p.ID, CriteriaID: c.ID, Score: floatPtr(50.5)}, http.StatusBadRequest, "INVALID_SCORE"},
		{"negative", models.UpsertScoreRequest{ParticipantID: p.ID, CriteriaID: c.ID, Score: floatPtr(-1)}, http.StatusBadRequest, "INVALID_SCORE"},
		{"missing participant", models.UpsertScoreRequest{CriteriaID: c.ID, Score: floatPtr(10)}, http.StatusBadRequest, "INVALID_PARTICIPANT_ID"},
		{"unknown criteria", models.UpsertScoreRequest{ParticipantID: p.ID, CriteriaID: 999, Score: floatPtr(10)}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown participant", models.UpsertScoreRequest{ParticipantID: 999, CriteriaID: c.ID, Score: floatPtr(10)}, http.StatusNotFound, "NOT_FOUND"},
		{"missing score", models.UpsertScoreRequest{ParticipantID: p.ID, CriteriaID: c.ID}, http.StatusBadRequest, "INVALID_SCORE"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("PUT", "/scores", tc.body, nil), judge)
			w := httptest.NewRecorder()

			handler.Upsert(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedCode != "" {
				assertErrorCode(t, w, tc.expectedCode)
				return
			}

			var s models.Score
			testutil.AssertJSON(t, w, &s)
			if s.Score != *tc.body.Score || s.UserID != judge.ID {
				t.Errorf("Unexpected score: %+v", s)
			}
		})
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM scores").Scan(&n)
	if n != 1 {
		t.Errorf("Expected repeated upserts to keep one row, got %d", n)
	}
}

func TestUpsertScore_MissingScoreKeepsStored(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Evening Gown")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Elegance", 50)
	p := testutil.CreateTestParticipant(t, db, 1, models.CategoryMS)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)
	testutil.CreateTestScore(t, db, p.ID, c.ID, judge.ID, 45)

	body := map[string]int64{"participant_id": p.ID, "criteria_id": c.ID}
	req := asUser(testutil.MakeRequest("PUT", "/scores", body, nil), judge)
	w := httptest.NewRecorder()

	handler.Upsert(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	assertErrorCode(t, w, "INVALID_SCORE")

	var stored float64
	if err := db.QueryRow("SELECT score FROM scores").Scan(&stored); err != nil {
		t.Fatalf("Failed to read score: %v", err)
	}
	if stored != 45 {
		t.Errorf("Expected stored score 45 to survive, got %v", stored)
	}
}

func TestSubmitScoresAndTotal(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	skill := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 60)
	impact := testutil.CreateTestCriteria(t, db, seg.ID, "Impact", 40)
	p := testutil.CreateTestParticipant(t, db, 3, models.CategoryMR)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)

	segID := strconv.FormatInt(seg.ID, 10)
	pID := strconv.FormatInt(p.ID, 10)

	body := models.SubmitScoresRequest{Scores: map[int64]*float64{skill.ID: floatPtr(45), impact.ID: floatPtr(30)}}
	req := asUser(testutil.MakeRequest("POST", "/segments/"+segID+"/participants/"+pID+"/scores", body, nil), judge)
	req.SetPathValue("id", segID)
	req.SetPathValue("pid", pID)
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SubmitScoresResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Scores) != 2 {
		t.Errorf("Expected 2 scores, got %d", len(resp.Scores))
	}
	if resp.Total.Total != 75 || resp.Total.MaxTotal != 100 {
		t.Errorf("Expected total 75/100, got %v/%v", resp.Total.Total, resp.Total.MaxTotal)
	}

	req = asUser(httptest.NewRequest("GET", "/segments/"+segID+"/participants/"+pID+"/total", nil), judge)
	req.SetPathValue("id", segID)
	req.SetPathValue("pid", pID)
	w = httptest.NewRecorder()

	handler.Total(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var total models.Total
	testutil.AssertJSON(t, w, &total)
	if total.Total != 75 || total.Percentage != 75 {
		t.Errorf("Expected total 75 (75%%), got %v (%v%%)", total.Total, total.Percentage)
	}
}

func TestSubmitScores_Rejected(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	other := testutil.CreateTestSegment(t, db, "Swimwear")
	skill := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 60)
	poise := testutil.CreateTestCriteria(t, db, other.ID, "Poise", 60)
	p := testutil.CreateTestParticipant(t, db, 3, models.CategoryMR)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)

	segID := strconv.FormatInt(seg.ID, 10)
	pID := strconv.FormatInt(p.ID, 10)

	testCases := []struct {
		name           string
		scores         map[int64]*float64
		expectedStatus int
		expectedCode   string
	}{
		{"empty", map[int64]*float64{}, http.StatusBadRequest, "INVALID_SCORE"},
		{"other segment's criteria", map[int64]*float64{skill.ID: floatPtr(10), poise.ID: floatPtr(10)}, http.StatusBadRequest, "INVALID_CRITERIA_ID"},
		{"one score out of range", map[int64]*float64{skill.ID: floatPtr(61)}, http.StatusBadRequest, "INVALID_SCORE"},
		{"null score", map[int64]*float64{skill.ID: nil}, http.StatusBadRequest, "INVALID_SCORE"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := models.SubmitScoresRequest{Scores: tc.scores}
			req := asUser(testutil.MakeRequest("POST", "/segments/"+segID+"/participants/"+pID+"/scores", body, nil), judge)
			req.SetPathValue("id", segID)
			req.SetPathValue("pid", pID)
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			assertErrorCode(t, w, tc.expectedCode)
		})
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM scores").Scan(&n)
	if n != 0 {
		t.Errorf("Expected rejected submissions to write nothing, got %d rows", n)
	}
}

func TestJudgeSheet(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 100)
	p1 := testutil.CreateTestParticipant(t, db, 1, models.CategoryMR)
	p2 := testutil.CreateTestParticipant(t, db, 2, models.CategoryMS)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)
	other := testutil.CreateTestUser(t, db, "judge_two", models.RoleJudge)
	testutil.CreateTestScore(t, db, p1.ID, c.ID, judge.ID, 70)
	testutil.CreateTestScore(t, db, p2.ID, c.ID, judge.ID, 90)
	testutil.CreateTestScore(t, db, p2.ID, c.ID, other.ID, 10)

	segID := strconv.FormatInt(seg.ID, 10)
	req := asUser(httptest.NewRequest("GET", "/segments/"+segID+"/scores/me", nil), judge)
	req.SetPathValue("id", segID)
	w := httptest.NewRecorder()

	handler.Sheet(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var sheet models.JudgeSheet
	testutil.AssertJSON(t, w, &sheet)
	if len(sheet.Scores) != 2 {
		t.Fatalf("Expected only this judge's 2 scores, got %d", len(sheet.Scores))
	}
	if len(sheet.Criteria) != 1 {
		t.Errorf("Expected 1 criterion, got %d", len(sheet.Criteria))
	}
	for _, row := range sheet.Scores {
		if row.ParticipantID == p2.ID && row.Score != 90 {
			t.Errorf("Expected participant 2 score 90, got %v", row.Score)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 100)
	p1 := testutil.CreateTestParticipant(t, db, 1, models.CategoryMR)
	p2 := testutil.CreateTestParticipant(t, db, 2, models.CategoryMS)
	p3 := testutil.CreateTestParticipant(t, db, 3, models.CategoryMS)
	j1 := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)
	j2 := testutil.CreateTestUser(t, db, "judge_two", models.RoleJudge)
	testutil.CreateTestScore(t, db, p1.ID, c.ID, j1.ID, 80)
	testutil.CreateTestScore(t, db, p2.ID, c.ID, j1.ID, 30)
	testutil.CreateTestScore(t, db, p2.ID, c.ID, j2.ID, 30)
	testutil.CreateTestScore(t, db, p3.ID, c.ID, j1.ID, 80)

	segID := strconv.FormatInt(seg.ID, 10)
	req := httptest.NewRequest("GET", "/segments/"+segID+"/leaderboard", nil)
	req.SetPathValue("id", segID)
	w := httptest.NewRecorder()

	handler.Leaderboard(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var board models.Leaderboard
	testutil.AssertJSON(t, w, &board)
	if len(board.Standings) != 3 {
		t.Fatalf("Expected 3 standings, got %d", len(board.Standings))
	}

	expected := []struct {
		number int64
		rank   int
	}{
		{1, 1}, // 80, ties with #3 and wins on number
		{3, 1},
		{2, 2},
	}
	for i, want := range expected {
		got := board.Standings[i]
		if got.Number != want.number || got.Rank != want.rank {
			t.Errorf("Standing %d: expected #%d rank %d, got #%d rank %d", i, want.number, want.rank, got.Number, got.Rank)
		}
	}

	req = httptest.NewRequest("GET", "/segments/999/leaderboard", nil)
	req.SetPathValue("id", "999")
	w = httptest.NewRecorder()
	handler.Leaderboard(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetAndDeleteScore(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 100)
	p := testutil.CreateTestParticipant(t, db, 1, models.CategoryMR)
	owner := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)
	other := testutil.CreateTestUser(t, db, "judge_two", models.RoleJudge)
	s := testutil.CreateTestScore(t, db, p.ID, c.ID, owner.ID, 70)
	id := strconv.FormatInt(s.ID, 10)

	testCases := []struct {
		name           string
		method         string
		id             string
		caller         models.User
		expectedStatus int
		expectedCode   string
	}{
		{"bad id", "GET", "abc", owner, http.StatusBadRequest, "INVALID_ID"},
		{"unknown id", "GET", "999", owner, http.StatusNotFound, "NOT_FOUND"},
		{"other judge reads", "GET", id, other, http.StatusForbidden, "FORBIDDEN"},
		{"other judge deletes", "DELETE", id, other, http.StatusForbidden, "FORBIDDEN"},
		{"owner reads", "GET", id, owner, http.StatusOK, ""},
		{"owner deletes", "DELETE", id, owner, http.StatusNoContent, ""},
		{"gone after delete", "GET", id, owner, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := asUser(httptest.NewRequest(tc.method, "/scores/"+tc.id, nil), tc.caller)
			req.SetPathValue("id", tc.id)
			w := httptest.NewRecorder()

			if tc.method == "DELETE" {
				handler.Delete(w, req)
			} else {
				handler.Get(w, req)
			}

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedCode != "" {
				assertErrorCode(t, w, tc.expectedCode)
			}
			if tc.expectedStatus == http.StatusOK {
				var got models.Score
				testutil.AssertJSON(t, w, &got)
				if got.ID != s.ID || got.Score != 70 {
					t.Errorf("Expected score %d = 70, got %+v", s.ID, got)
				}
			}
		})
	}
}

func TestListScores(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewScoreHandler(svc.Scores)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 100)
	p1 := testutil.CreateTestParticipant(t, db, 1, models.CategoryMR)
	p2 := testutil.CreateTestParticipant(t, db, 2, models.CategoryMS)
	j1 := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)
	j2 := testutil.CreateTestUser(t, db, "judge_two", models.RoleJudge)
	testutil.CreateTestScore(t, db, p1.ID, c.ID, j1.ID, 70)
	testutil.CreateTestScore(t, db, p1.ID, c.ID, j2.ID, 80)
	testutil.CreateTestScore(t, db, p2.ID, c.ID, j1.ID, 50)

	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
		expectedCode   string
	}{
		{"all", "", http.StatusOK, 3, ""},
		{"one participant", "?participant_id=" + strconv.FormatInt(p1.ID, 10), http.StatusOK, 2, ""},
		{"unknown participant", "?participant_id=999", http.StatusNotFound, 0, "NOT_FOUND"},
		{"bad participant id", "?participant_id=abc", http.StatusBadRequest, 0, "INVALID_PARTICIPANT_ID"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/scores"+tc.query, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedCode != "" {
				assertErrorCode(t, w, tc.expectedCode)
				return
			}
			var list []models.Score
			testutil.AssertJSON(t, w, &list)
			if len(list) != tc.expectedCount {
				t.Errorf("Expected %d scores, got %d", tc.expectedCount, len(list))
			}
		})
	}
}
