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

func TestCreateCriteria(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewCriteriaHandler(svc.Criteria)

	seg := testutil.CreateTestSegment(t, db, "Talent")

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedCode   string
		expectedMax    int
	}{
		{"default max score", models.CreateCriteriaRequest{SegmentID: seg.ID, Name: "Stage Presence"}, http.StatusCreated, "", 100},
		{"explicit max score", map[string]interface{}{"segment_id": seg.ID, "name": "Skill", "maxscore": 40}, http.StatusCreated, "", 40},
		{"missing segment", models.CreateCriteriaRequest{Name: "Skill"}, http.StatusBadRequest, "INVALID_SEGMENT_ID", 0},
		{"unknown segment", models.CreateCriteriaRequest{SegmentID: 999, Name: "Skill"}, http.StatusNotFound, "NOT_FOUND", 0},
		{"short name", models.CreateCriteriaRequest{SegmentID: seg.ID, Name: "X"}, http.StatusBadRequest, "INVALID_NAME", 0},
		{"zero max score", map[string]interface{}{"segment_id": seg.ID, "name": "Skill", "maxscore": 0}, http.StatusBadRequest, "INVALID_MAXSCORE", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/criteria", tc.body, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedCode != "" {
				assertErrorCode(t, w, tc.expectedCode)
				return
			}

			var c models.Criteria
			testutil.AssertJSON(t, w, &c)
			if c.MaxScore != tc.expectedMax {
				t.Errorf("Expected max score %d, got %d", tc.expectedMax, c.MaxScore)
			}
			if c.SegmentID != seg.ID {
				t.Errorf("Expected segment %d, got %d", seg.ID, c.SegmentID)
			}
		})
	}
}

func TestUpdateCriteria_MaxScoreBelowExisting(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewCriteriaHandler(svc.Criteria)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 100)
	p := testutil.CreateTestParticipant(t, db, 1, models.CategoryMS)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)
	testutil.CreateTestScore(t, db, p.ID, c.ID, judge.ID, 80)

	id := strconv.FormatInt(c.ID, 10)

	testCases := []struct {
		name           string
		maxScore       int
		expectedStatus int
	}{
		{"below recorded score", 50, http.StatusBadRequest},
		{"at recorded score", 80, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("PUT", "/criteria/"+id, map[string]int{"maxscore": tc.maxScore}, nil)
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()

			handler.Update(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				assertErrorCode(t, w, "INVALID_MAXSCORE")
			}
		})
	}
}

func TestDeleteCriteria_RemovesScores(t *testing.T) {
	svc, db := setupServices(t)
	handler := NewCriteriaHandler(svc.Criteria)

	seg := testutil.CreateTestSegment(t, db, "Talent")
	c := testutil.CreateTestCriteria(t, db, seg.ID, "Skill", 100)
	p := testutil.CreateTestParticipant(t, db, 1, models.CategoryMS)
	judge := testutil.CreateTestUser(t, db, "judge_one", models.RoleJudge)
	testutil.CreateTestScore(t, db, p.ID, c.ID, judge.ID, 70)

	id := strconv.FormatInt(c.ID, 10)
	req := httptest.NewRequest("DELETE", "/criteria/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	testutil.AssertStatus(t, w, http.StatusNoContent)
	var n int
	db.QueryRow("SELECT COUNT(*) FROM scores").Scan(&n)
	if n != 0 {
		t.Errorf("Expected scores to be deleted, %d remain", n)
	}

	w = httptest.NewRecorder()
	handler.Get(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
