// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the soulmate API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ParticipantHandler: login, questionnaire and answer submission
  - ImportHandler: roster import and access code issuance
  - MatchHandler: matching runs and soulmate lookup
  - MailHandler: access code emails

Handlers are created via constructor functions that accept *sql.DB and Config:

	matchHandler := handlers.NewMatchHandler(db, cfg)

# Event Flow

	POST /import     → Import (participants, answers, access codes)
	POST /send-codes → SendCodes (one email per participant)
	POST /login      → Login (access code → profile)
	POST /answers    → SubmitAnswers (replaces the answer vector)
	POST /matches    → RunMatching (stores day 1 and day 2 soulmates)
	GET  /soulmates  → GetSoulmates

Admin operations require the X-Admin-Key header; see middleware.AdminOnly.

# Matching

RunMatching loads every participant with answers, hands the roster to
matching.MatchRoster and replaces the soulmate table in one transaction.
Only one run executes at a time. The full run, including per-level trio
members and mean compatibility, is kept as JSON in match_run.
*/
package handlers
