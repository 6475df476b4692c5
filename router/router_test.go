// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/soulmate/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewRouter(db, testutil.GetTestConfig(), testutil.Questionnaire(t), nil)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

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

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "soulmate API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("Expected default collectors in metrics output")
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// Routes respond with handler errors (400, 401, 404) rather than 405
	testCases := []struct {
		method string
		path   string
	}{
		// Health and root
		{"GET", "/health"},
		{"GET", "/"},

		// Participant routes
		{"POST", "/login"},
		{"GET", "/questionnaire"},
		{"POST", "/answers"},
		{"GET", "/soulmates"},

		// Admin routes
		{"POST", "/import"},
		{"POST", "/matches"},
		{"GET", "/matches"},
		{"POST", "/send-codes"},
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

func TestSpecificMethodRouting(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"PUT to answers endpoint", "PUT", "/answers", http.StatusMethodNotAllowed},
		{"GET to login endpoint", "GET", "/login", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAdminRoutes(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		headers        map[string]string
		expectedStatus int
	}{
		{"import without key", "POST", "/import", nil, http.StatusUnauthorized},
		{"matches with wrong key", "GET", "/matches", map[string]string{"X-Admin-Key": "nope"}, http.StatusUnauthorized},
		{"matches before any run", "GET", "/matches", testutil.AdminHeaders(), http.StatusNotFound},
		{"bearer token", "GET", "/matches", map[string]string{"Authorization": "Bearer " + testutil.TestAdminKey}, http.StatusNotFound},
		{"send codes without SMTP", "POST", "/send-codes", testutil.AdminHeaders(), http.StatusServiceUnavailable},
		{"run matching", "POST", "/matches", testutil.AdminHeaders(), http.StatusCreated},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest(tc.method, tc.path, nil, tc.headers)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/answers", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected CORS headers on preflight")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Access-Code") {
		t.Errorf("Expected X-Access-Code to be allowed, got %q", w.Header().Get("Access-Control-Allow-Headers"))
	}
}
