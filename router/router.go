// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/soulmate/cliparse"
	"github.com/danielhkuo/soulmate/handlers"
	"github.com/danielhkuo/soulmate/mailer"
	"github.com/danielhkuo/soulmate/metrics"
	"github.com/danielhkuo/soulmate/middleware"
	"github.com/danielhkuo/soulmate/roster"
)

// NewRouter wires every endpoint. mail may be nil when SMTP is not
// configured.
func NewRouter(db *sql.DB, cfg cliparse.Config, questions *roster.Questionnaire, mail mailer.Mailer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	// Initialize handlers
	participantHandler := handlers.NewParticipantHandler(db, cfg, questions)
	importHandler := handlers.NewImportHandler(db, cfg, questions)
	matchHandler := handlers.NewMatchHandler(db, cfg)
	mailHandler := handlers.NewMailHandler(db, cfg, mail)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Participant operations (access code)
	r.Post("/login", middleware.WithLogging(participantHandler.Login))
	r.Get("/questionnaire", middleware.WithLogging(participantHandler.GetQuestionnaire))
	r.Post("/answers", middleware.WithLogging(participantHandler.SubmitAnswers))
	r.Get("/soulmates", middleware.WithLogging(matchHandler.GetSoulmates))

	// Admin operations (X-Admin-Key)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminOnly(cfg.AdminKey))
		r.Post("/import", middleware.WithLogging(importHandler.Import))
		r.Post("/matches", middleware.WithLogging(matchHandler.RunMatching))
		r.Get("/matches", middleware.WithLogging(matchHandler.GetMatches))
		r.Post("/send-codes", middleware.WithLogging(mailHandler.SendCodes))
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("soulmate API v1"))
	})

	return r
}
