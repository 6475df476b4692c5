// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/soulmate/cliparse"
	"github.com/danielhkuo/soulmate/metrics"
	"github.com/danielhkuo/soulmate/middleware"
	"github.com/danielhkuo/soulmate/models"
	"github.com/danielhkuo/soulmate/roster"
)

type ImportHandler struct {
	db        *sql.DB
	cfg       cliparse.Config
	questions *roster.Questionnaire
}

func NewImportHandler(db *sql.DB, cfg cliparse.Config, questions *roster.Questionnaire) *ImportHandler {
	return &ImportHandler{db: db, cfg: cfg, questions: questions}
}

// Import handles POST /import (admin)
// Upserts every valid record, replaces answers when the record carries any,
// and issues an access code to participants that have none.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, middleware.MaxBodyBytes)
	defer r.Body.Close()

	records, err := roster.DecodeRecords(r.Body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := models.ImportResponse{CodeLength: h.cfg.CodeLength}
	skip := func(i int, id, reason string) {
		resp.Skipped++
		resp.Problems = append(resp.Problems, models.ImportIssue{Index: i, ID: id, Reason: reason})
	}

	entries := make([]roster.Entry, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		entry, err := h.questions.Normalize(rec)
		if err != nil {
			skip(i, "", err.Error())
			continue
		}
		if seen[entry.ID] {
			skip(i, entry.ID, "duplicate id in payload")
			continue
		}
		seen[entry.ID] = true
		for _, col := range entry.Unparsed {
			if resp.Unparsed == nil {
				resp.Unparsed = make(map[string]int)
			}
			resp.Unparsed[col]++
		}
		entries = append(entries, entry)
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	codesIssued := 0
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participant (id, first_name, last_name, email, level)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				email = EXCLUDED.email,
				level = EXCLUDED.level
		`, e.ID, e.FirstName, e.LastName, e.Email, e.Level)
		if err != nil {
			slog.Error("failed to upsert participant", "participant_id", e.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import roster")
			return
		}

		if len(e.Answers) > 0 {
			if err := replaceAnswers(ctx, tx, e.ID, e.Answers); err != nil {
				slog.Error("failed to import answers", "participant_id", e.ID, "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import roster")
				return
			}
			resp.Answers += len(e.Answers)
		}

		_, created, err := ensureAccessCode(ctx, tx, e.ID, h.cfg.CodeLength)
		if err != nil {
			slog.Error("failed to issue access code", "participant_id", e.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import roster")
			return
		}
		if created {
			codesIssued++
		}
		resp.Imported++
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import roster")
		return
	}

	metrics.RecordImport(resp.Imported, resp.Skipped)
	slog.Info("roster imported",
		"imported", resp.Imported,
		"skipped", resp.Skipped,
		"answers", resp.Answers,
		"codes_issued", codesIssued,
	)

	middleware.JSONResponse(w, http.StatusOK, resp)
}
