// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite, postgres or pgx (default: sqlite)
  - AdminKey: Shared secret for admin routes (required)
  - CodeLength: Length of generated access codes, 4 to 32 (default: 6)
  - QuestionsFile: Questionnaire YAML; the embedded one when empty
  - SMTPHost, SMTPPort, SMTPUser, SMTPPass, SMTPFrom: outgoing mail

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-admin-key      Admin key
	-code-length    Access code length
	-questions      Questionnaire file
	-smtp-host      SMTP host
	-smtp-port      SMTP port (465 uses implicit TLS)
	-smtp-user      SMTP user
	-smtp-pass      SMTP password
	-smtp-from      Sender address

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	ADMIN_KEY          → -admin-key
	ACCESS_CODE_LENGTH → -code-length
	QUESTIONS_FILE     → -questions
	SMTP_HOST          → -smtp-host
	SMTP_PORT          → -smtp-port
	SMTP_USER          → -smtp-user
	SMTP_PASS          → -smtp-pass
	SMTP_FROM          → -smtp-from

CLI flags take precedence over environment variables. main loads a .env
file first, so its values count as environment.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - ADMIN_KEY is missing
  - the database type is not supported
  - the code length is out of range

Mail stays disabled while SMTP_HOST is empty; MailEnabled reports it.
*/
package cliparse
