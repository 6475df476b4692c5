// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roster turns raw registration exports into participants the
matching engine understands.

Exports come from a form tool and are messy: column headers carry
non-breaking spaces, answers are free text, names arrive as a single
"Prénom NOM" field and bookkeeping columns sit next to the questions.
The package handles three things:

  - Questionnaire: the question set (key, text, options) loaded from YAML.
    An option's value is its 1-based position. A default questionnaire is
    embedded in the binary.
  - Answer mapping: form text is mapped to an option value by exact match,
    then case-folded match, then partial match, then Levenshtein distance.
  - Record normalization: DecodeRecords accepts a JSON list, an object with a
    "users" or "data" list, or a single object; Normalize extracts one Entry
    per record.

Example:

	q, _ := roster.DefaultQuestionnaire()
	records, _ := roster.DecodeRecords(body)
	for _, rec := range records {
		entry, err := q.Normalize(rec)
		...
	}
*/
package roster
