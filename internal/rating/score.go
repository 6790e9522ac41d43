// Package rating scores plans. Walk visits the elements of a graph in a fixed
// order, a Strategy scores each element, and a TraversingRater sums the
// scores. Any element can abstain, in which case the whole plan is unrated.
// Lower scores are better.
package rating

import "strconv"

// Score is either a number or an abstention. The zero value abstains.
type Score struct {
	value  int
	scored bool
}

// Scored returns the score n.
func Scored(n int) Score { return Score{value: n, scored: true} }

// Abstain returns the score of an element that cannot be rated.
func Abstain() Score { return Score{} }

// Value returns the number and whether s is scored.
func (s Score) Value() (int, bool) { return s.value, s.scored }

// IsAbstain reports whether s is an abstention.
func (s Score) IsAbstain() bool { return !s.scored }

// Add returns the sum of s and o. An abstention absorbs any score.
func (s Score) Add(o Score) Score {
	if !s.scored || !o.scored {
		return Abstain()
	}
	return Scored(s.value + o.value)
}

// Less orders scored values ascending and abstentions last.
func (s Score) Less(o Score) bool {
	if s.scored != o.scored {
		return s.scored
	}
	return s.value < o.value
}

func (s Score) String() string {
	if !s.scored {
		return "unrated"
	}
	return strconv.Itoa(s.value)
}
