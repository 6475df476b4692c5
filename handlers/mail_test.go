// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/soulmate/models"
	"github.com/danielhkuo/soulmate/testutil"
)

func TestSendCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	for _, p := range []testutil.TestParticipant{
		{ID: "1", FirstName: "Marie", Email: "marie@example.com", Code: "aaaaaa"},
		{ID: "2", FirstName: "Jean", Email: "jean@example.com", Code: "bbbbbb"},
		{ID: "3", FirstName: "Lea", Email: "", Code: "cccccc"},
		{ID: "4", FirstName: "Hugo", Email: "hugo@example.com"},
		{ID: "5", FirstName: "Zoe", Email: "bounce@example.com", Code: "dddddd"},
	} {
		testutil.CreateTestParticipant(t, db, p)
	}

	recorder := &testutil.MailRecorder{Fail: map[string]bool{"bounce@example.com": true}}
	h := NewMailHandler(db, testutil.GetTestConfig(), recorder)

	w := httptest.NewRecorder()
	h.SendCodes(w, testutil.MakeRequest("POST", "/send-codes", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SendCodesResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Sent != 2 {
		t.Errorf("Expected 2 sent, got %d", resp.Sent)
	}
	if resp.SkippedNoEmail != 1 || resp.SkippedNoCode != 1 {
		t.Errorf("Unexpected skips: %+v", resp)
	}
	if len(resp.Errors) != 1 || !strings.HasPrefix(resp.Errors[0], "bounce@example.com") {
		t.Errorf("Expected one bounce error, got %v", resp.Errors)
	}

	sent := recorder.Sent()
	if len(sent) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(sent))
	}
	if sent[0].To != "jean@example.com" || !strings.Contains(sent[0].Body, "bbbbbb") {
		t.Errorf("Unexpected message to Jean: %+v", sent[0])
	}
	if !strings.Contains(sent[1].Body, "Bonjour Marie") || !strings.Contains(sent[1].Body, "aaaaaa") {
		t.Errorf("Unexpected message to Marie: %+v", sent[1])
	}
}

func TestSendCodes_NotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewMailHandler(db, testutil.GetTestConfig(), nil)

	w := httptest.NewRecorder()
	h.SendCodes(w, testutil.MakeRequest("POST", "/send-codes", nil, nil))

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestSendCodes_EmptyRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewMailHandler(db, testutil.GetTestConfig(), &testutil.MailRecorder{})

	w := httptest.NewRecorder()
	h.SendCodes(w, testutil.MakeRequest("POST", "/send-codes", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SendCodesResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Sent != 0 || resp.Errors == nil {
		t.Errorf("Unexpected response: %+v", resp)
	}
}
