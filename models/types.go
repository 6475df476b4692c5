// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/soulmate/matching"
	"github.com/danielhkuo/soulmate/roster"
)

// Header names
const (
	HeaderAdminKey   = "X-Admin-Key"
	HeaderAccessCode = "X-Access-Code"
)

// Request types

type LoginRequest struct {
	Password string `json:"password" validate:"required,max=64"`
}

// Question key -> option value (1-based)
type SubmitAnswersRequest struct {
	Code string         `json:"code" validate:"required,max=64"`
	Data map[string]int `json:"data" validate:"required,min=1"`
}

// Response types

type ImportResponse struct {
	Imported   int            `json:"imported"`
	Skipped    int            `json:"skipped"`
	Answers    int            `json:"answers"`
	CodeLength int            `json:"code_length"`
	Problems   []ImportIssue  `json:"problems,omitempty"`
	Unparsed   map[string]int `json:"unparsed,omitempty"`
}

// ImportIssue explains why a record was skipped
type ImportIssue struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

type SubmitAnswersResponse struct {
	ParticipantID string `json:"participant_id"`
	Saved         int    `json:"saved"`
	Message       string `json:"message"`
}

type QuestionnaireResponse struct {
	Questions []roster.Question `json:"questions"`
}

type SendCodesResponse struct {
	Sent           int      `json:"sent"`
	SkippedNoEmail int      `json:"skipped_no_email"`
	SkippedNoCode  int      `json:"skipped_no_code"`
	Errors         []string `json:"errors"`
}

// GroupSummary describes one level group of a matching run
type GroupSummary struct {
	Level     string   `json:"level"`
	Size      int      `json:"size"`
	Day1Trio  []string `json:"day1_trio,omitempty"`
	Day2Trio  []string `json:"day2_trio,omitempty"`
	Day1Score float64  `json:"day1_mean_score"`
	Day2Score float64  `json:"day2_mean_score"`
}

type MatchRunResponse struct {
	RunID            string                `json:"run_id"`
	ComputedAt       time.Time             `json:"computed_at"`
	ParticipantCount int                   `json:"participant_count"`
	Groups           []GroupSummary        `json:"groups"`
	Assignments      []matching.Assignment `json:"assignments"`
}

type SoulmatesResponse struct {
	RunID string        `json:"run_id"`
	Day1  []Participant `json:"day1"`
	Day2  []Participant `json:"day2"`
}

// Domain types

// Participant is the public profile returned at login and for soulmates.
// CurrentClass keeps the field name the frontend already reads.
type Participant struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email,omitempty"`
	CurrentClass string `json:"currentClass"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
