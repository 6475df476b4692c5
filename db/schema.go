// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Statements run one at a time and stick to SQL both SQLite and PostgreSQL
// accept.
var schema = []string{
	// Participants
	`CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    level TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_participant_level ON participant(level)`,

	// Access codes (one per participant)
	`CREATE TABLE IF NOT EXISTS access_code (
    code TEXT PRIMARY KEY,
    participant_id TEXT NOT NULL UNIQUE REFERENCES participant(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	// Questionnaire answers
	`CREATE TABLE IF NOT EXISTS answer (
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    question_key TEXT NOT NULL,
    value INTEGER NOT NULL CHECK (value >= 1),
    PRIMARY KEY (participant_id, question_key)
)`,

	// Matching runs
	`CREATE TABLE IF NOT EXISTS match_run (
    id TEXT PRIMARY KEY,
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    participant_count INTEGER NOT NULL,
    group_count INTEGER NOT NULL,
    payload TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_match_run_computed_at ON match_run(computed_at)`,

	// Soulmates of the latest run
	`CREATE TABLE IF NOT EXISTS soulmate (
    participant_id TEXT PRIMARY KEY REFERENCES participant(id) ON DELETE CASCADE,
    run_id TEXT NOT NULL REFERENCES match_run(id) ON DELETE CASCADE,
    level TEXT NOT NULL,
    day1 TEXT,
    day2 TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_soulmate_run_id ON soulmate(run_id)`,
}
