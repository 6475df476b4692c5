// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingID            = errors.New("participant has no identifier")
	ErrDuplicateParticipant = errors.New("duplicate participant identifier")
	ErrMissingAnswers       = errors.New("participant has no answers")
	ErrMixedLevels          = errors.New("participants from different levels in one group")
)

// validateGroup enforces the preconditions the engine does not repair
func validateGroup(group []Participant) error {
	seen := make(map[string]bool, len(group))
	for i, p := range group {
		if err := validateParticipant(p, seen); err != nil {
			return err
		}
		if i > 0 && p.Level != group[0].Level {
			return fmt.Errorf("%w: %q and %q", ErrMixedLevels, group[0].Level, p.Level)
		}
	}
	return nil
}

func validateParticipant(p Participant, seen map[string]bool) error {
	if p.ID == "" {
		return ErrMissingID
	}
	if seen[p.ID] {
		return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
	}
	seen[p.ID] = true
	if p.Answers == nil {
		return fmt.Errorf("%w: %s", ErrMissingAnswers, p.ID)
	}
	return nil
}

// GroupByLevel partitions participants by level tag. Groups are ordered by
// level and keep the relative order of the input inside each group.
func GroupByLevel(participants []Participant) [][]Participant {
	byLevel := make(map[string][]Participant)
	var levels []string
	for _, p := range participants {
		if _, ok := byLevel[p.Level]; !ok {
			levels = append(levels, p.Level)
		}
		byLevel[p.Level] = append(byLevel[p.Level], p)
	}
	sort.Strings(levels)

	groups := make([][]Participant, len(levels))
	for i, level := range levels {
		groups[i] = byLevel[level]
	}
	return groups
}

// MatchRoster groups the roster by level and matches every group. Groups
// share nothing, so they are matched in parallel; results come back in level
// order regardless of scheduling.
func MatchRoster(participants []Participant) ([]GroupResult, error) {
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if err := validateParticipant(p, seen); err != nil {
			return nil, err
		}
	}

	groups := GroupByLevel(participants)
	results := make([]GroupResult, len(groups))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, group := range groups {
		g.Go(func() error {
			res, err := MatchGroup(group)
			if err != nil {
				return fmt.Errorf("level %q: %w", group[0].Level, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
