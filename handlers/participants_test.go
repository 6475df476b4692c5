// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/soulmate/models"
	"github.com/danielhkuo/soulmate/testutil"
)

func newParticipantHandler(t *testing.T) (*ParticipantHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.CreateTestParticipant(t, db, testutil.TestParticipant{
		ID:        "42",
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Level:     "Terminale",
		Code:      "ab12cd",
	})
	return NewParticipantHandler(db, testutil.GetTestConfig(), testutil.Questionnaire(t)), db
}

func TestLogin(t *testing.T) {
	h, _ := newParticipantHandler(t)

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"valid code", models.LoginRequest{Password: "ab12cd"}, http.StatusOK},
		{"code is case insensitive", models.LoginRequest{Password: " AB12CD "}, http.StatusOK},
		{"unknown code", models.LoginRequest{Password: "zzzzzz"}, http.StatusForbidden},
		{"empty code", models.LoginRequest{Password: ""}, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/login", tc.body, nil)
			w := httptest.NewRecorder()

			h.Login(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var p models.Participant
			testutil.AssertJSON(t, w, &p)
			if p.ID != "42" || p.FirstName != "Marie" || p.CurrentClass != "Terminale" {
				t.Errorf("Unexpected profile: %+v", p)
			}
		})
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	h, _ := newParticipantHandler(t)

	req := httptest.NewRequest("POST", "/login", strings.NewReader("{nope"))
	w := httptest.NewRecorder()

	h.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetQuestionnaire(t *testing.T) {
	h, _ := newParticipantHandler(t)

	w := httptest.NewRecorder()
	h.GetQuestionnaire(w, httptest.NewRequest("GET", "/questionnaire", nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.QuestionnaireResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Questions) != 15 {
		t.Fatalf("Expected 15 questions, got %d", len(resp.Questions))
	}
	if resp.Questions[0].Key != "q3" || len(resp.Questions[0].Options) != 4 {
		t.Errorf("Unexpected first question: %+v", resp.Questions[0])
	}
}

func TestSubmitAnswers(t *testing.T) {
	h, db := newParticipantHandler(t)

	testCases := []struct {
		name           string
		body           models.SubmitAnswersRequest
		expectedStatus int
	}{
		{"unknown question", models.SubmitAnswersRequest{Code: "ab12cd", Data: map[string]int{"q99": 1}}, http.StatusBadRequest},
		{"value out of range", models.SubmitAnswersRequest{Code: "ab12cd", Data: map[string]int{"q3": 5}}, http.StatusBadRequest},
		{"zero value", models.SubmitAnswersRequest{Code: "ab12cd", Data: map[string]int{"q3": 0}}, http.StatusBadRequest},
		{"no answers", models.SubmitAnswersRequest{Code: "ab12cd", Data: map[string]int{}}, http.StatusBadRequest},
		{"unknown code", models.SubmitAnswersRequest{Code: "zzzzzz", Data: map[string]int{"q3": 1}}, http.StatusForbidden},
		{"valid", models.SubmitAnswersRequest{Code: "ab12cd", Data: map[string]int{"q3": 2, "q4": 1, "q5": 4}}, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/answers", tc.body, nil)
			w := httptest.NewRecorder()

			h.SubmitAnswers(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}

	if n := testutil.CountRows(t, db, "answer"); n != 3 {
		t.Errorf("Expected 3 stored answers, got %d", n)
	}

	// Resubmitting replaces the previous vector
	req := testutil.MakeRequest("POST", "/answers", models.SubmitAnswersRequest{
		Code: "ab12cd",
		Data: map[string]int{"q6": 3},
	}, nil)
	w := httptest.NewRecorder()
	h.SubmitAnswers(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitAnswersResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ParticipantID != "42" || resp.Saved != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}

	var value int
	if err := db.QueryRow(`SELECT value FROM answer WHERE participant_id = $1 AND question_key = $2`, "42", "q6").Scan(&value); err != nil {
		t.Fatalf("Failed to read answer: %v", err)
	}
	if value != 3 {
		t.Errorf("Expected q6 = 3, got %d", value)
	}
	if n := testutil.CountRows(t, db, "answer"); n != 1 {
		t.Errorf("Expected previous answers to be replaced, got %d rows", n)
	}
}
