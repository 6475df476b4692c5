// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/soulmate/models"
	"github.com/danielhkuo/soulmate/testutil"
)

// TestConcurrentAnswerSubmissions verifies that simultaneous submissions
// from different participants all land without losing or mixing answers
func TestConcurrentAnswerSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewParticipantHandler(db, testutil.GetTestConfig(), testutil.Questionnaire(t))

	numParticipants := 10
	for i := 0; i < numParticipants; i++ {
		testutil.CreateTestParticipant(t, db, testutil.TestParticipant{
			ID:    fmt.Sprintf("p%02d", i),
			Level: "Terminale",
			Code:  fmt.Sprintf("code%02d", i),
		})
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numParticipants; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/answers", models.SubmitAnswersRequest{
				Code: fmt.Sprintf("code%02d", idx),
				Data: map[string]int{"q3": idx%4 + 1, "q4": (idx+1)%4 + 1},
			}, nil)
			w := httptest.NewRecorder()

			h.SubmitAnswers(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numParticipants {
		t.Errorf("Expected %d successful submissions, got %d", numParticipants, successCount.Load())
	}

	if n := testutil.CountRows(t, db, "answer"); n != numParticipants*2 {
		t.Errorf("Expected %d answers, got %d", numParticipants*2, n)
	}

	for i := 0; i < numParticipants; i++ {
		var value int
		err := db.QueryRow(`SELECT value FROM answer WHERE participant_id = $1 AND question_key = 'q3'`,
			fmt.Sprintf("p%02d", i)).Scan(&value)
		if err != nil {
			t.Fatalf("Failed to read answer of p%02d: %v", i, err)
		}
		if value != i%4+1 {
			t.Errorf("p%02d: expected q3 = %d, got %d", i, i%4+1, value)
		}
	}
}

// TestConcurrentMatchingRuns verifies that overlapping runs never interleave:
// each request either completes or is turned away, and the stored soulmates
// all come from a single run
func TestConcurrentMatchingRuns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedMatchRoster(t, db)
	h := NewMatchHandler(db, testutil.GetTestConfig())

	numRuns := 5
	var created, conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRuns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			h.RunMatching(w, testutil.MakeRequest("POST", "/matches", nil, nil))

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	wg.Wait()

	if created.Load() == 0 {
		t.Fatal("Expected at least one run to complete")
	}
	if int(created.Load()+conflicts.Load()) != numRuns {
		t.Errorf("Expected %d responses, got %d", numRuns, created.Load()+conflicts.Load())
	}

	var runs int
	if err := db.QueryRow(`SELECT COUNT(DISTINCT run_id) FROM soulmate`).Scan(&runs); err != nil {
		t.Fatalf("Failed to count runs: %v", err)
	}
	if runs != 1 {
		t.Errorf("Expected soulmates from one run, got %d", runs)
	}
	if n := testutil.CountRows(t, db, "match_run"); n != int(created.Load()) {
		t.Errorf("Expected %d stored runs, got %d", created.Load(), n)
	}
}
