// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package matching pairs participants into soulmates for the two event days.

The engine is pure: it takes an in-memory roster and returns plain values.
It performs no I/O, keeps no state between runs and never modifies its input.

# Compatibility

Two participants score one point per question they answered identically:

	Score(Answers{"q3": 1, "q4": 2}, Answers{"q3": 1, "q4": 3}) // 1

# Rounds

Within a level group, every pair is scored and the pairs are walked by score
descending, ties broken by ascending (i, j). Day 1 greedily accepts a pair
when both members are free. Day 2 repeats the walk without any day 1
relation; when day 1 formed a trio, pairs touching its members are walked
first.

Odd groups fold the leftover into an existing pair:

  - Day 1: the leftover joins its best-scoring match.
  - Day 2: same, preferring someone who was not in the day 1 trio.
  - Two day 2 leftovers are former partners; an existing pair is split so
    both meet someone new.
  - Three day 2 leftovers: best pair of the three plus the third.

A group of exactly three is matched in a circle, one direction per day.

# Usage

	results, err := matching.MatchRoster(participants)
	for _, group := range results {
		for _, a := range group.Assignments() {
			fmt.Println(a.ParticipantID, a.Day1, a.Day2)
		}
	}

Groups are matched concurrently; output order is level order and identical
input always produces identical output.
*/
package matching
