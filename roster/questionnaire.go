// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestions []byte

var validate = validator.New()

// maxFuzzyDistance is the largest edit distance accepted when mapping a
// misspelled answer to an option.
const maxFuzzyDistance = 2

var ErrDuplicateQuestion = errors.New("duplicate question key")

// Question is one multiple-choice question. Option i has value i+1.
type Question struct {
	Key     string   `yaml:"key" json:"key" validate:"required"`
	Text    string   `yaml:"text" json:"text" validate:"required"`
	Options []string `yaml:"options" json:"options" validate:"min=2,dive,required"`
}

// Questionnaire is the question set plus the rules for cleaning form exports.
type Questionnaire struct {
	Questions      []Question `yaml:"questions" validate:"required,min=1,dive"`
	LevelQuestions []string   `yaml:"level_questions"`
	DropColumns    []string   `yaml:"drop_columns"`
	DropPrefixes   []string   `yaml:"drop_prefixes"`

	byKey  map[string]int
	byText map[string]int
	drop   map[string]bool
	levels map[string]int
}

// LoadQuestionnaire decodes and validates a questionnaire definition.
// Unknown fields are rejected so typos surface at startup.
func LoadQuestionnaire(r io.Reader) (*Questionnaire, error) {
	var q Questionnaire
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&q); err != nil {
		return nil, fmt.Errorf("failed to decode questionnaire: %w", err)
	}
	if err := validate.Struct(q); err != nil {
		return nil, fmt.Errorf("questionnaire validation failed: %w", err)
	}
	if err := q.index(); err != nil {
		return nil, err
	}
	return &q, nil
}

// DefaultQuestionnaire returns the embedded questionnaire.
func DefaultQuestionnaire() (*Questionnaire, error) {
	return LoadQuestionnaire(bytes.NewReader(defaultQuestions))
}

// LoadQuestionnaireFile reads a questionnaire from path, or returns the
// embedded default when path is empty.
func LoadQuestionnaireFile(path string) (*Questionnaire, error) {
	if path == "" {
		return DefaultQuestionnaire()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open questionnaire: %w", err)
	}
	defer f.Close()
	return LoadQuestionnaire(f)
}

func (q *Questionnaire) index() error {
	q.byKey = make(map[string]int, len(q.Questions))
	q.byText = make(map[string]int, len(q.Questions))
	for i, question := range q.Questions {
		if _, dup := q.byKey[question.Key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateQuestion, question.Key)
		}
		q.byKey[question.Key] = i
		q.byText[foldKey(question.Text)] = i
	}

	q.drop = make(map[string]bool, len(q.DropColumns))
	for _, col := range q.DropColumns {
		q.drop[NormalizeColumn(col)] = true
	}
	q.levels = make(map[string]int, len(q.LevelQuestions))
	for i, col := range q.LevelQuestions {
		q.levels[foldKey(col)] = i
	}
	return nil
}

// Question looks a question up by key.
func (q *Questionnaire) Question(key string) (Question, bool) {
	i, ok := q.byKey[key]
	if !ok {
		return Question{}, false
	}
	return q.Questions[i], true
}

// FindQuestion resolves a form column header to a question, either by key
// or by question text (whitespace and case insensitive).
func (q *Questionnaire) FindQuestion(column string) (Question, bool) {
	col := NormalizeColumn(column)
	if question, ok := q.Question(col); ok {
		return question, true
	}
	i, ok := q.byText[foldKey(col)]
	if !ok {
		return Question{}, false
	}
	return q.Questions[i], true
}

// ValidValue reports whether value is an option value of the question key.
func (q *Questionnaire) ValidValue(key string, value int) bool {
	question, ok := q.Question(key)
	return ok && value >= 1 && value <= len(question.Options)
}

// Keys returns question keys in questionnaire order.
func (q *Questionnaire) Keys() []string {
	keys := make([]string, len(q.Questions))
	for i, question := range q.Questions {
		keys[i] = question.Key
	}
	return keys
}

// Dropped reports whether a column is bookkeeping that never carries an answer.
func (q *Questionnaire) Dropped(column string) bool {
	col := NormalizeColumn(column)
	if q.drop[col] {
		return true
	}
	for _, prefix := range q.DropPrefixes {
		if strings.HasPrefix(col, NormalizeColumn(prefix)) {
			return true
		}
	}
	return false
}

// levelIndex returns the position of column among the level questions.
func (q *Questionnaire) levelIndex(column string) (int, bool) {
	i, ok := q.levels[foldKey(column)]
	return i, ok
}

// ParseAnswer maps free answer text to an option value of question.
// Matching is tried in order: exact, case-folded, partial (either string
// containing the other), then the closest option within a small edit
// distance. Earlier options win ties.
func ParseAnswer(question Question, answer string) (int, bool) {
	answer = NormalizeColumn(answer)
	if answer == "" {
		return 0, false
	}

	for i, opt := range question.Options {
		if NormalizeColumn(opt) == answer {
			return i + 1, true
		}
	}

	folded := foldKey(answer)
	options := make([]string, len(question.Options))
	for i, opt := range question.Options {
		options[i] = foldKey(opt)
		if options[i] == folded {
			return i + 1, true
		}
	}

	for i, opt := range options {
		if opt == "" {
			continue
		}
		if strings.Contains(folded, opt) || strings.Contains(opt, folded) {
			return i + 1, true
		}
	}

	best, bestDist := -1, maxFuzzyDistance+1
	for i, opt := range options {
		if d := levenshtein.ComputeDistance(folded, opt); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best + 1, true
}

// NormalizeColumn cleans a header or answer cell: non-breaking spaces become
// spaces, runs of whitespace collapse, the text is NFC-composed and trimmed.
func NormalizeColumn(s string) string {
	s = strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// foldKey is the comparison form of a string. Casers keep state, so one is
// built per call.
func foldKey(s string) string {
	return cases.Fold().String(NormalizeColumn(s))
}
