// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/danielhkuo/soulmate/cliparse"
	"github.com/danielhkuo/soulmate/db"
	"github.com/danielhkuo/soulmate/mailer"
	"github.com/danielhkuo/soulmate/roster"
)

// TestAdminKey is the admin key of GetTestConfig
const TestAdminKey = "test-admin-key"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in the test's temp dir and disappears with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: "sqlite",
		AdminKey:     TestAdminKey,
		CodeLength:   6,
	}
}

// Questionnaire returns the embedded default questionnaire
func Questionnaire(t *testing.T) *roster.Questionnaire {
	t.Helper()

	q, err := roster.DefaultQuestionnaire()
	if err != nil {
		t.Fatalf("Failed to load questionnaire: %v", err)
	}
	return q
}

// TestParticipant describes a participant to seed
type TestParticipant struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Level     string
	Code      string
	Answers   map[string]int
}

// CreateTestParticipant inserts a participant with its access code (when
// set) and answers
func CreateTestParticipant(t *testing.T, conn *sql.DB, p TestParticipant) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO participant (id, first_name, last_name, email, level)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.FirstName, p.LastName, p.Email, p.Level)
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	if p.Code != "" {
		_, err = conn.Exec(`
			INSERT INTO access_code (code, participant_id)
			VALUES ($1, $2)
		`, p.Code, p.ID)
		if err != nil {
			t.Fatalf("Failed to create test access code: %v", err)
		}
	}

	for key, value := range p.Answers {
		_, err = conn.Exec(`
			INSERT INTO answer (participant_id, question_key, value)
			VALUES ($1, $2, $3)
		`, p.ID, key, value)
		if err != nil {
			t.Fatalf("Failed to create test answer: %v", err)
		}
	}
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MailRecorder is a mailer.Mailer that keeps messages instead of sending
// them. Recipients listed in Fail get an error.
type MailRecorder struct {
	mu   sync.Mutex
	sent []mailer.Message
	Fail map[string]bool
}

func (m *MailRecorder) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns delivered messages ordered by recipient
func (m *MailRecorder) Sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]mailer.Message(nil), m.sent...)
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
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

// AdminHeaders returns headers carrying the test admin key
func AdminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": TestAdminKey}
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
