// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the soulmate API.

# Route Registration

NewRouter creates a chi router with all endpoints:

	r := router.NewRouter(db, cfg, questions, mail)

Every request gets a request ID, panic recovery and CORS headers.

# Endpoints

Health and monitoring:

	GET /health
	GET /metrics

Participants (access code):

	POST /login          - Exchange an access code for the profile
	GET  /questionnaire  - Questions and options
	POST /answers        - Replace the caller's answers
	GET  /soulmates      - Day 1 and day 2 companions (X-Access-Code)

Administration (requires X-Admin-Key):

	POST /import      - Import the roster and issue access codes
	POST /matches     - Run matching and store the result
	GET  /matches     - Latest run
	POST /send-codes  - Email access codes

# Handler Initialization

	participantHandler := handlers.NewParticipantHandler(db, cfg, questions)
	importHandler := handlers.NewImportHandler(db, cfg, questions)
	matchHandler := handlers.NewMatchHandler(db, cfg)
	mailHandler := handlers.NewMailHandler(db, cfg, mail)

All handlers receive the database connection and configuration.
*/
package router
