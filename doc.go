// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the soulmate API server.

The server backs a two-day school event: participants are imported from a
registration export, receive an access code by email, answer a short
questionnaire and are then paired with a "soulmate" of the same level for
each day. Nobody meets the same soulmate twice.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first when present:

	DATABASE_URL=soulmate.db ADMIN_KEY=... go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -t pgx -admin-key ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY (-admin-key): Secret for administrative routes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default), postgres or pgx
  - ACCESS_CODE_LENGTH (-code-length): default 6
  - QUESTIONS_FILE (-questions): questionnaire YAML
  - SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM: outbound mail

# Architecture

The server uses a handler-based architecture with dependency injection:

  - matching: the pairing engine (pure, no I/O)
  - roster: import decoding and answer normalization
  - handlers: HTTP request handlers (participants, import, matches, mail)
  - router: chi routes
  - middleware: CORS, logging, admin guard, JSON helpers
  - models: Request/response types
  - auth: Access codes and admin key checks
  - mailer: SMTP delivery
  - metrics: Prometheus collectors
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
