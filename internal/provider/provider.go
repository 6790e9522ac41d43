// Package provider answers the planner's questions about what can satisfy a
// request: which actions can be precursors of an action, and which provisions
// satisfy requested functionalities, tasks and properties.
//
// The Basic providers map requests one to one onto repository offers. The
// composing providers additionally merge composable actions of one widget,
// so a single composite can satisfy what no atomic action satisfies alone.
//
// An empty result is not an error. Repository errors are returned unchanged.
package provider

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// PrecursorProvider finds actions that can run before an action to clear the
// properties it requires cleared.
type PrecursorProvider interface {
	PrecursorActions(ctx context.Context, action *model.Action) ([]*model.Action, error)
}

// FunctionalityProvider satisfies requested functionalities.
type FunctionalityProvider interface {
	FunctionalityProvisions(ctx context.Context, requests []model.Functionality) ([]graph.FunctionalityProvision, error)
}

// TaskProvider satisfies requested tasks.
type TaskProvider interface {
	TaskProvisions(ctx context.Context, requests []model.Task) ([]graph.TaskProvision, error)
}

// PropertyProvider satisfies requested properties.
type PropertyProvider interface {
	PropertyProvisions(ctx context.Context, requests []model.Property) ([]graph.PropertyProvision, error)
}
