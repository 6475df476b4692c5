// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrInvalidPayload = errors.New("roster must be a JSON object or list of objects")
	ErrMissingID      = errors.New("record has no identifier")
)

// Record is one raw roster entry as decoded from JSON.
type Record map[string]any

var (
	idFields        = []string{"id", "ID", "user_id", "uid"}
	firstNameFields = []string{"first_name", "firstName", "firstname"}
	lastNameFields  = []string{"last_name", "lastName", "lastname"}
	fullNameFields  = []string{"Nom", "name"}
	emailFields     = []string{"email", "Adresse de messagerie"}
	levelFields     = []string{"currentClass", "current_class", "level"}
)

// Entry is a normalized participant ready to be stored.
type Entry struct {
	ID        string         `json:"id" validate:"required,max=128"`
	FirstName string         `json:"first_name" validate:"max=200"`
	LastName  string         `json:"last_name" validate:"max=200"`
	Email     string         `json:"email,omitempty" validate:"omitempty,email"`
	Level     string         `json:"level" validate:"max=200"`
	Answers   map[string]int `json:"answers" validate:"dive,gte=1"`

	// Unparsed lists answer columns that matched no question or option.
	Unparsed []string `json:"unparsed,omitempty"`
}

// DecodeRecords reads a roster payload: a list of objects, an object holding
// such a list under "users" or "data", or a single object.
func DecodeRecords(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	switch v := raw.(type) {
	case []any:
		return toRecords(v)
	case map[string]any:
		for _, key := range []string{"users", "data"} {
			if list, ok := v[key].([]any); ok {
				return toRecords(list)
			}
		}
		return []Record{v}, nil
	default:
		return nil, ErrInvalidPayload
	}
}

func toRecords(list []any) ([]Record, error) {
	records := make([]Record, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d", ErrInvalidPayload, i)
		}
		records = append(records, obj)
	}
	return records, nil
}

// Normalize extracts an Entry from a raw record.
//
// Answers are read from the record's "answers" object and from top-level
// fields that name a question. Values may already be option values or the
// option text; text is mapped with ParseAnswer. Bookkeeping columns are
// ignored, and the two level questions are folded into Level when the record
// carries no explicit level.
func (q *Questionnaire) Normalize(rec Record) (Entry, error) {
	entry := Entry{
		ID:      firstString(rec, idFields),
		Answers: make(map[string]int),
	}
	if entry.ID == "" {
		return Entry{}, ErrMissingID
	}

	entry.FirstName = firstString(rec, firstNameFields)
	entry.LastName = firstString(rec, lastNameFields)
	if entry.FirstName == "" && entry.LastName == "" {
		entry.FirstName, entry.LastName = ParseName(firstString(rec, fullNameFields))
	}

	entry.Email = firstString(rec, emailFields)
	if entry.Email != "" && validate.Var(entry.Email, "email") != nil {
		entry.Email = ""
	}

	levelParts := make([]string, len(q.LevelQuestions))
	collect := func(column string, value any, strict bool) {
		col := NormalizeColumn(column)
		if col == "" || q.Dropped(col) {
			return
		}
		if i, ok := q.levelIndex(col); ok {
			levelParts[i] = asString(value)
			return
		}
		question, ok := q.FindQuestion(col)
		if !ok {
			if strict {
				entry.Unparsed = append(entry.Unparsed, col)
			}
			return
		}
		if value == nil {
			return
		}
		if v, ok := q.answerValue(question, value); ok {
			entry.Answers[question.Key] = v
		} else {
			entry.Unparsed = append(entry.Unparsed, col)
		}
	}

	for key, value := range rec {
		if key != "answers" {
			collect(key, value, false)
		}
	}
	if answers, ok := rec["answers"].(map[string]any); ok {
		for key, value := range answers {
			collect(key, value, true)
		}
	}
	sort.Strings(entry.Unparsed)

	entry.Level = firstString(rec, levelFields)
	if entry.Level == "" {
		entry.Level = NormalizeColumn(strings.Join(levelParts, " "))
	}

	if err := validate.Struct(entry); err != nil {
		return Entry{}, fmt.Errorf("record %s: %w", entry.ID, err)
	}
	return entry, nil
}

// answerValue accepts an option value (number or numeric string) in range,
// or option text.
func (q *Questionnaire) answerValue(question Question, value any) (int, bool) {
	s := asString(value)
	if n, err := strconv.Atoi(s); err == nil {
		if q.ValidValue(question.Key, n) {
			return n, true
		}
		return 0, false
	}
	return ParseAnswer(question, s)
}

// ParseName splits "Prénom NOM" into first and last name. Trailing
// all-uppercase words form the last name and are capitalized. Without any,
// the first word is the first name and the rest the last name.
func ParseName(full string) (first, last string) {
	parts := strings.Fields(NormalizeColumn(full))
	if len(parts) == 0 {
		return "", ""
	}

	i := len(parts) - 1
	for i >= 0 && isUpperWord(parts[i]) {
		i--
	}
	firstParts, lastParts := parts[:i+1], parts[i+1:]

	title := cases.Title(language.French)
	switch {
	case len(lastParts) == 0 && len(parts) >= 2:
		return parts[0], title.String(strings.Join(parts[1:], " "))
	case len(firstParts) == 0:
		// Everything is uppercase: the final word is the last name.
		n := len(lastParts) - 1
		return title.String(strings.Join(lastParts[:n], " ")), title.String(lastParts[n])
	default:
		return strings.Join(firstParts, " "), title.String(strings.Join(lastParts, " "))
	}
}

// isUpperWord reports whether w has at least one cased letter and no
// lowercase ones.
func isUpperWord(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func firstString(rec Record, fields []string) string {
	for _, f := range fields {
		if s := asString(rec[f]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return NormalizeColumn(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return NormalizeColumn(fmt.Sprint(t))
	}
}
