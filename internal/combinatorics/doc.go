// Package combinatorics provides the lazy enumerators the planner combines
// candidates with: a cartesian product iterator and an ordered power set that
// can be pruned while it is being enumerated.
//
// Both enumerators are deterministic. Neither is safe for concurrent use.
package combinatorics
