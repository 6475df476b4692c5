// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: password (the access code)
  - SubmitAnswersRequest: code, data (question key -> option value)

Roster imports are not typed here; see package roster.

# Response Types

Types for JSON responses:

  - ImportResponse: imported, skipped, answers, code_length, problems
  - QuestionnaireResponse: questions
  - SubmitAnswersResponse: participant_id, saved, message
  - SendCodesResponse: sent, skipped_no_email, skipped_no_code, errors
  - MatchRunResponse: run_id, computed_at, groups, assignments
  - SoulmatesResponse: run_id, day1, day2
  - ErrorResponse: error, message

# Domain Types

  - Participant: public profile (id, first_name, last_name, email, currentClass)
  - GroupSummary: per-level statistics of a matching run

# Security

Access codes never appear in responses except in the emails sent to their
owners.
*/
package models
