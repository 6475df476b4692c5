// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

import "sort"

// Answers maps a question key to the participant's answer value (usually 1-4).
type Answers map[string]int

// Score counts the questions answered identically by both participants.
// Keys missing from either side neither add nor subtract.
func Score(a, b Answers) int {
	if len(b) < len(a) {
		a, b = b, a
	}

	s := 0
	for key, v := range a {
		if w, ok := b[key]; ok && v == w {
			s++
		}
	}
	return s
}

// pair is an unordered candidate pair with i < j
type pair struct {
	i, j  int
	score int
}

// scoreTable holds every pairwise score of a level group together with the
// candidate pairs in walking order.
type scoreTable struct {
	n      int
	scores [][]int
	pairs  []pair
}

func newScoreTable(participants []Participant) *scoreTable {
	n := len(participants)
	t := &scoreTable{
		n:      n,
		scores: make([][]int, n),
		pairs:  make([]pair, 0, n*(n-1)/2),
	}
	for i := range t.scores {
		t.scores[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := Score(participants[i].Answers, participants[j].Answers)
			t.scores[i][j] = s
			t.scores[j][i] = s
			t.pairs = append(t.pairs, pair{i: i, j: j, score: s})
		}
	}

	sortPairs(t.pairs)
	return t
}

// sortPairs orders pairs by score descending, then by (i, j) ascending
func sortPairs(pairs []pair) {
	sort.Slice(pairs, func(x, y int) bool {
		a, b := pairs[x], pairs[y]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.i != b.i {
			return a.i < b.i
		}
		return a.j < b.j
	})
}

// bestMatch returns the assigned participant with the highest score against
// target, restricted to candidates accepted by accept (nil accepts all).
// Ties go to the lowest index. Returns -1 when nothing qualifies.
func (t *scoreTable) bestMatch(target int, a *assignment, accept func(c int) bool) int {
	best, bestScore := -1, -1
	for c := 0; c < t.n; c++ {
		if c == target || !a.used[c] {
			continue
		}
		if accept != nil && !accept(c) {
			continue
		}
		if t.scores[target][c] > bestScore {
			best, bestScore = c, t.scores[target][c]
		}
	}
	return best
}
