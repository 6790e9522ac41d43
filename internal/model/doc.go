// Package model defines the immutable domain values of the planner: widgets,
// actions, properties, proposition and effect sets, offers and mashups, plus
// the Repository contract the planner queries.
//
// # Actions
//
// An action belongs to one widget. Its postconditions are derived from its
// preconditions and effects:
//
//	cleared' = toClear ∪ (pre.cleared − toFill)
//	filled'  = toFill ∪ (pre.filled − toClear)
//
// A set of actions is composable when all belong to one widget and no two of
// them are mutex. Compose merges composable actions into a composite that keeps
// its members, so a composite represents every action its members represent.
//
// # Invariants
//
// Constructors that could violate an invariant (overlapping cleared and filled
// properties, composing non-composable actions, offers whose action does not
// provide the subject) return an *errors.InvariantError.
package model
