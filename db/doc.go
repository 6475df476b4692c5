// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open picks the driver from the configured type:

  - sqlite: modernc.org/sqlite (pure Go, foreign keys enabled)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5 through its database/sql adapter

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Queries use $N placeholders, which all three drivers accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - participant: imported roster entry (name, email, level)
  - access_code: login code per participant
  - answer: questionnaire answer per participant and question
  - match_run: one row per matching run, full result as JSON payload
  - soulmate: latest day 1 and day 2 partner per participant

# Relationships

	participant 1──1 access_code
	participant 1──* answer
	participant 1──1 soulmate
	match_run   1──* soulmate

All foreign keys use ON DELETE CASCADE.
*/
package db
