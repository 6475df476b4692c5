// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/soulmate/cliparse"
	"github.com/danielhkuo/soulmate/matching"
	"github.com/danielhkuo/soulmate/metrics"
	"github.com/danielhkuo/soulmate/middleware"
	"github.com/danielhkuo/soulmate/models"
)

type MatchHandler struct {
	db  *sql.DB
	cfg cliparse.Config

	// running serializes matching runs; a second request gets 409
	running sync.Mutex
}

func NewMatchHandler(db *sql.DB, cfg cliparse.Config) *MatchHandler {
	return &MatchHandler{db: db, cfg: cfg}
}

// RunMatching handles POST /matches (admin)
// Matches every participant that has answers and replaces the stored
// soulmates with the new run.
func (h *MatchHandler) RunMatching(w http.ResponseWriter, r *http.Request) {
	if !h.running.TryLock() {
		middleware.ErrorResponse(w, http.StatusConflict, "Matching already running")
		return
	}
	defer h.running.Unlock()

	ctx := r.Context()
	participants, err := loadRoster(ctx, h.db)
	if err != nil {
		slog.Error("failed to load roster", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	start := time.Now()
	results, err := matching.MatchRoster(participants)
	metrics.ObserveRun(time.Since(start), results, err)
	if err != nil {
		slog.Error("matching failed", "error", err)
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	run := models.MatchRunResponse{
		RunID:            uuid.NewString(),
		ComputedAt:       time.Now().UTC(),
		ParticipantCount: len(participants),
		Groups:           make([]models.GroupSummary, 0, len(results)),
		Assignments:      []matching.Assignment{},
	}
	for _, res := range results {
		run.Groups = append(run.Groups, models.GroupSummary{
			Level:     res.Level,
			Size:      len(res.Participants),
			Day1Trio:  res.TrioIDs(res.Day1),
			Day2Trio:  res.TrioIDs(res.Day2),
			Day1Score: res.MeanScore(res.Day1),
			Day2Score: res.MeanScore(res.Day2),
		})
		run.Assignments = append(run.Assignments, res.Assignments()...)
	}

	payload, err := json.Marshal(run)
	if err != nil {
		slog.Error("failed to encode run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save matches")
		return
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM soulmate`); err != nil {
		slog.Error("failed to clear soulmates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save matches")
		return
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO match_run (id, computed_at, participant_count, group_count, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, run.RunID, run.ComputedAt, run.ParticipantCount, len(run.Groups), string(payload))
	if err != nil {
		slog.Error("failed to insert match run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save matches")
		return
	}

	for _, a := range run.Assignments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO soulmate (participant_id, run_id, level, day1, day2)
			VALUES ($1, $2, $3, $4, $5)
		`, a.ParticipantID, run.RunID, a.Level, nullable(a.Day1), nullable(a.Day2))
		if err != nil {
			slog.Error("failed to insert soulmate", "participant_id", a.ParticipantID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save matches")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save matches")
		return
	}

	slog.Info("matching complete",
		"run_id", run.RunID,
		"participants", run.ParticipantCount,
		"groups", len(run.Groups),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	middleware.JSONResponse(w, http.StatusCreated, run)
}

// GetMatches handles GET /matches (admin)
// Returns the latest run as it was computed.
func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	var payload string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT payload
		FROM match_run
		ORDER BY computed_at DESC
		LIMIT 1
	`).Scan(&payload)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No matching run yet")
		return
	}
	if err != nil {
		slog.Error("failed to query match run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var run models.MatchRunResponse
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		slog.Error("failed to decode match run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Corrupt match run")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, run)
}

// GetSoulmates handles GET /soulmates
// The caller authenticates with X-Access-Code and gets the profiles of the
// people they meet on each day.
func (h *MatchHandler) GetSoulmates(w http.ResponseWriter, r *http.Request) {
	code := r.Header.Get(models.HeaderAccessCode)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Access code required")
		return
	}

	ctx := r.Context()
	p, err := participantByCode(ctx, h.db, code)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid access code")
		return
	}
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var runID, level string
	err = h.db.QueryRowContext(ctx, `
		SELECT run_id, level FROM soulmate WHERE participant_id = $1
	`, p.ID).Scan(&runID, &level)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No soulmates yet")
		return
	}
	if err != nil {
		slog.Error("failed to query soulmate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	day1, day2, err := loadRounds(ctx, h.db, runID, level)
	if err != nil {
		slog.Error("failed to load rounds", "run_id", runID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.SoulmatesResponse{RunID: runID}
	if resp.Day1, err = participantsByID(ctx, h.db, matching.Companions(day1, p.ID)); err == nil {
		resp.Day2, err = participantsByID(ctx, h.db, matching.Companions(day2, p.ID))
	}
	if err != nil {
		slog.Error("failed to load soulmate profiles", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Contact details stay private
	for i := range resp.Day1 {
		resp.Day1[i].Email = ""
	}
	for i := range resp.Day2 {
		resp.Day2[i].Email = ""
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// loadRoster reads every participant with at least one answer, ordered by id
func loadRoster(ctx context.Context, q querier) ([]matching.Participant, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT p.id, p.level, a.question_key, a.value
		FROM participant p
		JOIN answer a ON a.participant_id = p.id
		ORDER BY p.id, a.question_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var participants []matching.Participant
	for rows.Next() {
		var id, level, key string
		var value int
		if err := rows.Scan(&id, &level, &key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		n := len(participants)
		if n == 0 || participants[n-1].ID != id {
			participants = append(participants, matching.Participant{
				ID:      id,
				Level:   level,
				Answers: matching.Answers{},
			})
			n++
		}
		participants[n-1].Answers[key] = value
	}
	return participants, rows.Err()
}

// loadRounds returns the day 1 and day 2 partner maps of one level group
func loadRounds(ctx context.Context, q querier, runID, level string) (day1, day2 map[string]string, err error) {
	rows, err := q.QueryContext(ctx, `
		SELECT participant_id, COALESCE(day1, ''), COALESCE(day2, '')
		FROM soulmate
		WHERE run_id = $1 AND level = $2
	`, runID, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query soulmates: %w", err)
	}
	defer rows.Close()

	day1 = make(map[string]string)
	day2 = make(map[string]string)
	for rows.Next() {
		var id, d1, d2 string
		if err := rows.Scan(&id, &d1, &d2); err != nil {
			return nil, nil, fmt.Errorf("failed to scan soulmate: %w", err)
		}
		day1[id] = d1
		day2[id] = d2
	}
	return day1, day2, rows.Err()
}
