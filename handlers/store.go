// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/danielhkuo/soulmate/auth"
	"github.com/danielhkuo/soulmate/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// maxCodeAttempts bounds retries when a generated access code collides
const maxCodeAttempts = 10

// participantByCode resolves an access code to its owner.
// Returns sql.ErrNoRows for unknown codes.
func participantByCode(ctx context.Context, q querier, code string) (models.Participant, error) {
	var p models.Participant
	err := q.QueryRowContext(ctx, `
		SELECT p.id, p.first_name, p.last_name, p.email, p.level
		FROM participant p
		JOIN access_code a ON a.participant_id = p.id
		WHERE a.code = $1
	`, auth.NormalizeAccessCode(code)).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CurrentClass)
	return p, err
}

// participantsByID loads profiles for the given ids, in the order given.
// Unknown ids are skipped.
func participantsByID(ctx context.Context, q querier, ids []string) ([]models.Participant, error) {
	out := make([]models.Participant, 0, len(ids))
	for _, id := range ids {
		var p models.Participant
		err := q.QueryRowContext(ctx, `
			SELECT id, first_name, last_name, email, level
			FROM participant
			WHERE id = $1
		`, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CurrentClass)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load participant %s: %w", id, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ensureAccessCode returns the participant's code, issuing a fresh unique
// one when they have none yet
func ensureAccessCode(ctx context.Context, q querier, participantID string, length int) (code string, created bool, err error) {
	err = q.QueryRowContext(ctx,
		`SELECT code FROM access_code WHERE participant_id = $1`, participantID,
	).Scan(&code)
	if err == nil {
		return code, false, nil
	}
	if err != sql.ErrNoRows {
		return "", false, fmt.Errorf("failed to query access code: %w", err)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err = auth.GenerateAccessCode(length)
		if err != nil {
			return "", false, err
		}

		var taken int
		err = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM access_code WHERE code = $1`, code).Scan(&taken)
		if err != nil {
			return "", false, fmt.Errorf("failed to check access code: %w", err)
		}
		if taken > 0 {
			continue
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO access_code (code, participant_id)
			VALUES ($1, $2)
		`, code, participantID)
		if err != nil {
			return "", false, fmt.Errorf("failed to insert access code: %w", err)
		}
		return code, true, nil
	}
	return "", false, fmt.Errorf("no unique access code after %d attempts", maxCodeAttempts)
}

// replaceAnswers swaps the participant's whole answer vector
func replaceAnswers(ctx context.Context, q querier, participantID string, answers map[string]int) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM answer WHERE participant_id = $1`, participantID); err != nil {
		return fmt.Errorf("failed to clear answers: %w", err)
	}

	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, err := q.ExecContext(ctx, `
			INSERT INTO answer (participant_id, question_key, value)
			VALUES ($1, $2, $3)
		`, participantID, k, answers[k])
		if err != nil {
			return fmt.Errorf("failed to insert answer %s: %w", k, err)
		}
	}
	return nil
}

// nullable maps an empty string to SQL NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
