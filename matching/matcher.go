// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

// Participant is one member of a level group as seen by the engine.
type Participant struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Level   string  `json:"level"`
	Answers Answers `json:"answers"`
}

// MatchGroup produces the day 1 and day 2 pairings for one level group.
//
// The group is not modified. An empty group yields an empty result and a
// single participant is left unassigned on both days.
func MatchGroup(group []Participant) (GroupResult, error) {
	if err := validateGroup(group); err != nil {
		return GroupResult{}, err
	}

	participants := make([]Participant, len(group))
	copy(participants, group)

	result := GroupResult{Participants: participants}
	if len(participants) > 0 {
		result.Level = participants[0].Level
	}

	switch n := len(participants); n {
	case 0:
		result.Day1 = Round{Partner: []int{}}
		result.Day2 = Round{Partner: []int{}}
	case 1:
		result.Day1 = Round{Partner: []int{Unassigned}}
		result.Day2 = Round{Partner: []int{Unassigned}}
	case 3:
		// Circular in opposite directions so both days differ for everyone
		result.Day1 = Round{Partner: []int{1, 2, 0}, Trio: []int{0, 1, 2}}
		result.Day2 = Round{Partner: []int{2, 0, 1}, Trio: []int{0, 1, 2}}
	default:
		t := newScoreTable(participants)
		result.Day1 = t.firstRound()
		result.Day2 = t.secondRound(result.Day1)
	}

	return result, nil
}

// firstRound is the plain greedy pass plus the single-leftover trio
func (t *scoreTable) firstRound() Round {
	a := newAssignment(t.n)
	a.walk(t.pairs)

	var trio []int
	if free := a.free(); len(free) == 1 && len(a.links) > 0 {
		leftover := free[0]
		trio = a.attach(leftover, t.bestMatch(leftover, a, nil))
	}
	return a.round(trio)
}

// secondRound repeats the greedy pass without any day 1 relation. Pairs
// touching a day 1 trio member go first so that those members are less likely
// to end up in a trio again.
func (t *scoreTable) secondRound(first Round) Round {
	var touching, rest []pair
	for _, p := range t.pairs {
		if first.related(p.i, p.j) {
			continue
		}
		if first.InTrio(p.i) || first.InTrio(p.j) {
			touching = append(touching, p)
		} else {
			rest = append(rest, p)
		}
	}

	a := newAssignment(t.n)
	a.walk(touching)
	a.walk(rest)

	return a.round(t.resolveLeftovers(a, first))
}

// resolveLeftovers places whoever the day 2 greedy pass could not pair and
// returns the resulting trio, if any.
func (t *scoreTable) resolveLeftovers(a *assignment, first Round) []int {
	free := a.free()
	switch len(free) {
	case 1:
		return t.resolveSingle(a, first, free[0])
	case 2:
		t.resolvePair(a, first, free[0], free[1])
	case 3:
		return t.resolveThree(a, free)
	}
	return nil
}

// resolveSingle attaches the leftover to its best match, preferring someone
// outside the day 1 trio and never recreating a day 1 relation while another
// candidate exists.
func (t *scoreTable) resolveSingle(a *assignment, first Round, leftover int) []int {
	if len(a.links) == 0 {
		return nil
	}

	fresh := func(c int) bool { return !first.related(leftover, c) }
	best := t.bestMatch(leftover, a, func(c int) bool {
		return fresh(c) && !first.InTrio(c)
	})
	if best == Unassigned {
		best = t.bestMatch(leftover, a, fresh)
	}
	if best == Unassigned {
		best = t.bestMatch(leftover, a, nil)
	}
	return a.attach(leftover, best)
}

// resolvePair pairs the last two participants. Greedy only leaves two behind
// when they were day 1 partners, so an existing pair is split first if that
// lets both of them meet someone new. Direct pairing is the fallback.
func (t *scoreTable) resolvePair(a *assignment, first Round, u, v int) {
	if !first.related(u, v) {
		a.link(u, v)
		return
	}

	swapAt, bestScore := -1, -1
	var swapWith [2]int
	for k, l := range a.links {
		for _, s := range [2][2]int{{l[0], l[1]}, {l[1], l[0]}} {
			if first.related(u, s[0]) || first.related(v, s[1]) {
				continue
			}
			if total := t.scores[u][s[0]] + t.scores[v][s[1]]; total > bestScore {
				swapAt, bestScore, swapWith = k, total, s
			}
		}
	}

	if swapAt < 0 {
		a.link(u, v)
		return
	}

	a.links = append(a.links[:swapAt], a.links[swapAt+1:]...)
	a.link(u, swapWith[0])
	a.link(v, swapWith[1])
}

// resolveThree pairs the best-scoring two of the three leftovers and
// attaches the third to the first member of that pair.
func (t *scoreTable) resolveThree(a *assignment, free []int) []int {
	candidates := []pair{
		{i: free[0], j: free[1], score: t.scores[free[0]][free[1]]},
		{i: free[0], j: free[2], score: t.scores[free[0]][free[2]]},
		{i: free[1], j: free[2], score: t.scores[free[1]][free[2]]},
	}
	sortPairs(candidates)
	best := candidates[0]

	third := free[0] + free[1] + free[2] - best.i - best.j
	a.link(best.i, best.j)
	return a.attach(third, best.i)
}
