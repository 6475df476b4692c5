// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

import "sort"

// Unassigned marks a participant without a partner in a round.
const Unassigned = -1

// Round is one day's pairing inside a level group.
//
// Partner[i] is the index of participant i's partner. Pairs reference each
// other. A trio is three members each holding one reference: the extra member
// points at one member of an existing pair, whose own reference is unchanged.
type Round struct {
	Partner []int `json:"partner"`
	// Trio lists the members of the round's group of three in ascending
	// order, or is empty when everyone is in a pair.
	Trio []int `json:"trio,omitempty"`
}

// InTrio reports whether participant i belongs to the round's trio.
func (r Round) InTrio(i int) bool {
	for _, m := range r.Trio {
		if m == i {
			return true
		}
	}
	return false
}

// Companions returns everyone participant i spends the round with, in
// ascending order: the other two trio members, or the single partner.
func (r Round) Companions(i int) []int {
	if i < 0 || i >= len(r.Partner) || r.Partner[i] == Unassigned {
		return nil
	}
	if r.InTrio(i) {
		out := make([]int, 0, 2)
		for _, m := range r.Trio {
			if m != i {
				out = append(out, m)
			}
		}
		return out
	}
	return []int{r.Partner[i]}
}

// related reports whether i and j reference each other in either direction
func (r Round) related(i, j int) bool {
	return r.Partner[i] == j || r.Partner[j] == i
}

// assignment is the mutable state of a round while it is being built
type assignment struct {
	partner []int
	used    []bool
	// links holds the two-person pairs in the order they were formed
	links [][2]int
}

func newAssignment(n int) *assignment {
	a := &assignment{
		partner: make([]int, n),
		used:    make([]bool, n),
	}
	for i := range a.partner {
		a.partner[i] = Unassigned
	}
	return a
}

// link makes i and j partners
func (a *assignment) link(i, j int) {
	a.partner[i] = j
	a.partner[j] = i
	a.used[i] = true
	a.used[j] = true
	a.links = append(a.links, [2]int{i, j})
}

// attach folds extra into the pair containing member, forming a trio
func (a *assignment) attach(extra, member int) []int {
	a.partner[extra] = member
	a.used[extra] = true
	return sortedTrio(extra, member, a.partner[member])
}

// walk greedily accepts every pair whose members are both still free
func (a *assignment) walk(pairs []pair) {
	for _, p := range pairs {
		if !a.used[p.i] && !a.used[p.j] {
			a.link(p.i, p.j)
		}
	}
}

// free returns the unassigned participants in ascending order
func (a *assignment) free() []int {
	var out []int
	for i, used := range a.used {
		if !used {
			out = append(out, i)
		}
	}
	return out
}

func (a *assignment) round(trio []int) Round {
	return Round{Partner: a.partner, Trio: trio}
}

func sortedTrio(a, b, c int) []int {
	trio := []int{a, b, c}
	sort.Ints(trio)
	return trio
}
