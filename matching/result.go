// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GroupResult is the outcome of matching one level group.
type GroupResult struct {
	Level        string        `json:"level"`
	Participants []Participant `json:"-"`
	Day1         Round         `json:"day1"`
	Day2         Round         `json:"day2"`
}

// Assignment is one participant's row: who they meet on each day.
// An empty partner means the participant has nobody that day.
type Assignment struct {
	ParticipantID string `json:"participant_id"`
	Level         string `json:"level"`
	Day1          string `json:"day1,omitempty"`
	Day2          string `json:"day2,omitempty"`
}

// Assignments converts the index-based rounds into identifier rows, in the
// order participants were supplied.
func (g GroupResult) Assignments() []Assignment {
	out := make([]Assignment, len(g.Participants))
	for i, p := range g.Participants {
		out[i] = Assignment{
			ParticipantID: p.ID,
			Level:         g.Level,
			Day1:          g.partnerID(g.Day1, i),
			Day2:          g.partnerID(g.Day2, i),
		}
	}
	return out
}

func (g GroupResult) partnerID(r Round, i int) string {
	if i >= len(r.Partner) || r.Partner[i] == Unassigned {
		return ""
	}
	return g.Participants[r.Partner[i]].ID
}

// TrioIDs returns the identifiers of the round's trio members.
func (g GroupResult) TrioIDs(r Round) []string {
	ids := make([]string, 0, len(r.Trio))
	for _, m := range r.Trio {
		ids = append(ids, g.Participants[m].ID)
	}
	return ids
}

// MeanScore is the average compatibility between each assigned participant
// and their partner reference in the given round. Zero when nobody is assigned.
func (g GroupResult) MeanScore(r Round) float64 {
	var scores []float64
	for i, partner := range r.Partner {
		if partner == Unassigned {
			continue
		}
		scores = append(scores, float64(Score(g.Participants[i].Answers, g.Participants[partner].Answers)))
	}
	if len(scores) == 0 {
		return 0
	}
	return stat.Mean(scores, nil)
}

// Companions resolves, from identifier rows of one round, everyone the given
// participant spends the round with: their partner, anyone pointing at them,
// and for a trio the third member reached through the partner.
func Companions(partners map[string]string, id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	add := func(other string) {
		if other != "" && !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}

	direct := partners[id]
	add(direct)
	for other, ref := range partners {
		if ref == id {
			add(other)
		}
	}
	// The extra trio member points at someone else in the group
	if direct != "" && partners[direct] != id {
		add(partners[direct])
	}
	for other, ref := range partners {
		if ref == direct && direct != "" && partners[direct] == id {
			add(other)
		}
	}

	sort.Strings(out)
	return out
}
