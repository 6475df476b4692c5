// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/soulmate/cliparse"
	"github.com/danielhkuo/soulmate/db"
	"github.com/danielhkuo/soulmate/mailer"
	"github.com/danielhkuo/soulmate/roster"
	"github.com/danielhkuo/soulmate/router"
)

func main() {
	// A missing .env is fine; real deployments use the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database unavailable", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	questions, err := roster.LoadQuestionnaireFile(cfg.QuestionsFile)
	if err != nil {
		slog.Error("questionnaire invalid", "file", cfg.QuestionsFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Questionnaire loaded", "questions", len(questions.Questions))

	var mail mailer.Mailer
	if cfg.MailEnabled() {
		m, err := mailer.NewSMTP(mailer.Config{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
		if err != nil {
			slog.Error("smtp configuration invalid", "error", err)
			os.Exit(1)
		}
		mail = m
		slog.Info("Mail enabled", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		slog.Info("Mail disabled (no SMTP_HOST)")
	}

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(dbConn, cfg, questions, mail),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
