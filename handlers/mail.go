// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/soulmate/cliparse"
	"github.com/danielhkuo/soulmate/mailer"
	"github.com/danielhkuo/soulmate/metrics"
	"github.com/danielhkuo/soulmate/middleware"
	"github.com/danielhkuo/soulmate/models"
)

// mailConcurrency bounds simultaneous SMTP sessions
const mailConcurrency = 10

type MailHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	mailer mailer.Mailer
}

// NewMailHandler accepts a nil mailer; sending then answers 503.
func NewMailHandler(db *sql.DB, cfg cliparse.Config, m mailer.Mailer) *MailHandler {
	return &MailHandler{db: db, cfg: cfg, mailer: m}
}

type recipient struct {
	id        string
	firstName string
	email     string
	code      string
}

// SendCodes handles POST /send-codes (admin)
// Emails every participant their access code. Individual failures are
// reported, not fatal.
func (h *MailHandler) SendCodes(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "SMTP not configured")
		return
	}

	ctx := r.Context()
	rows, err := h.db.QueryContext(ctx, `
		SELECT p.id, p.first_name, p.email, COALESCE(a.code, '')
		FROM participant p
		LEFT JOIN access_code a ON a.participant_id = p.id
		ORDER BY p.id
	`)
	if err != nil {
		slog.Error("failed to query recipients", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var recipients []recipient
	resp := models.SendCodesResponse{Errors: []string{}}
	for rows.Next() {
		var rc recipient
		if err := rows.Scan(&rc.id, &rc.firstName, &rc.email, &rc.code); err != nil {
			rows.Close()
			slog.Error("failed to scan recipient", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		switch {
		case rc.email == "":
			resp.SkippedNoEmail++
			metrics.RecordEmail("skipped")
		case rc.code == "":
			resp.SkippedNoCode++
			metrics.RecordEmail("skipped")
		default:
			recipients = append(recipients, rc)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		slog.Error("failed to read recipients", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(mailConcurrency)
	for _, rc := range recipients {
		g.Go(func() error {
			err := h.mailer.Send(ctx, mailer.AccessCodeMessage(rc.email, rc.firstName, rc.code))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("failed to send access code", "participant_id", rc.id, "error", err)
				resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", rc.email, err))
				metrics.RecordEmail("failed")
				return nil
			}
			resp.Sent++
			metrics.RecordEmail("sent")
			return nil
		})
	}
	g.Wait()
	sort.Strings(resp.Errors)

	slog.Info("access codes sent",
		"sent", resp.Sent,
		"failed", len(resp.Errors),
		"skipped_no_email", resp.SkippedNoEmail,
		"skipped_no_code", resp.SkippedNoCode,
	)

	middleware.JSONResponse(w, http.StatusOK, resp)
}
