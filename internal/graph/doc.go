// Package graph holds the planning graph: provisions that satisfy requests
// with offers, the initial level satisfying a mashup goal, extension levels
// that provide the preconditions of actions required by the level before
// them, and the Plan, a graph validated to be executable.
//
// Graphs are immutable. ExtendWith returns a new graph sharing the existing
// levels. Indices over a graph, such as MutexIndex, are keyed by the level
// values of that graph and must not be used with levels of another graph.
package graph
