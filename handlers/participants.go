// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/danielhkuo/soulmate/auth"
	"github.com/danielhkuo/soulmate/cliparse"
	"github.com/danielhkuo/soulmate/middleware"
	"github.com/danielhkuo/soulmate/models"
	"github.com/danielhkuo/soulmate/roster"
)

type ParticipantHandler struct {
	db        *sql.DB
	cfg       cliparse.Config
	questions *roster.Questionnaire
}

func NewParticipantHandler(db *sql.DB, cfg cliparse.Config, questions *roster.Questionnaire) *ParticipantHandler {
	return &ParticipantHandler{db: db, cfg: cfg, questions: questions}
}

// Login handles POST /login
// The access code is the password; the response is the participant profile.
func (h *ParticipantHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateRequest(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := participantByCode(r.Context(), h.db, req.Password)
	if err == sql.ErrNoRows {
		slog.Warn("login rejected", "client", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKey))
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid access code")
		return
	}
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("participant logged in", "participant_id", p.ID)

	middleware.JSONResponse(w, http.StatusOK, p)
}

// GetQuestionnaire handles GET /questionnaire
func (h *ParticipantHandler) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.QuestionnaireResponse{
		Questions: h.questions.Questions,
	})
}

// SubmitAnswers handles POST /answers
// Replaces the caller's whole answer vector.
func (h *ParticipantHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateRequest(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Reject unknown questions and out-of-range values
	var invalid []string
	for key, value := range req.Data {
		if !h.questions.ValidValue(key, value) {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid answers: %v", invalid))
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	p, err := participantByCode(ctx, tx, req.Code)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid access code")
		return
	}
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := replaceAnswers(ctx, tx, p.ID, req.Data); err != nil {
		slog.Error("failed to save answers", "participant_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save answers")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save answers")
		return
	}

	slog.Info("answers saved", "participant_id", p.ID, "count", len(req.Data))

	middleware.JSONResponse(w, http.StatusOK, models.SubmitAnswersResponse{
		ParticipantID: p.ID,
		Saved:         len(req.Data),
		Message:       "Answers saved",
	})
}
