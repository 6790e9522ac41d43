// Package extend builds planning graphs. A Factory creates the initial level
// satisfying a mashup, an Extender adds one extension level at a time that
// provides the preconditions of the actions the previous level requires, and
// a CycleDetector keeps an extension from making an action depend on itself.
//
// Expected dead ends are reported as *errors.PlanningError. Extending a graph
// that needs no extension is a caller bug and wraps errors.ErrInvalidInput.
package extend

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/provider"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Factory creates the initial graph for a mashup.
type Factory interface {
	CreateGraph(ctx context.Context, mashup model.Mashup) (*graph.Graph, error)
}

// DefaultFactory satisfies every requested functionality and task with the
// provisions of its providers. The task provider may be nil when no mashup
// requests tasks.
type DefaultFactory struct {
	functionalities provider.FunctionalityProvider
	tasks           provider.TaskProvider
}

// NewDefaultFactory returns a factory using the given providers.
func NewDefaultFactory(fp provider.FunctionalityProvider, tp provider.TaskProvider) *DefaultFactory {
	return &DefaultFactory{functionalities: fp, tasks: tp}
}

// CreateGraph implements Factory. It fails with a PlanningError unless the
// provisions found satisfy every requested functionality and task.
func (f *DefaultFactory) CreateGraph(ctx context.Context, mashup model.Mashup) (*graph.Graph, error) {
	var fps []graph.FunctionalityProvision
	if fs := mashup.Functionalities(); len(fs) > 0 {
		found, err := f.functionalities.FunctionalityProvisions(ctx, fs)
		if err != nil {
			return nil, errors.Wrap(err, "failed to provide functionalities")
		}
		if !satisfiesAll(found, fs) {
			return nil, unrealizable("cannot realize all mashup functionalities")
		}
		fps = found
	}

	var tps []graph.TaskProvision
	if ts := mashup.Tasks(); len(ts) > 0 {
		if f.tasks == nil {
			return nil, unrealizable("cannot realize all mashup tasks")
		}
		found, err := f.tasks.TaskProvisions(ctx, ts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to provide tasks")
		}
		if !satisfiesAll(found, ts) {
			return nil, unrealizable("cannot realize all mashup tasks")
		}
		tps = found
	}

	initial, err := graph.NewInitialLevel(fps, tps)
	if err != nil {
		return nil, err
	}
	return graph.New(initial), nil
}

func satisfiesAll[T sets.Keyed](provisions []graph.Provision[T], requests []T) bool {
	var satisfied sets.Set[T]
	for _, p := range provisions {
		satisfied.Add(p.Request())
	}
	return !satisfied.IsEmpty() && satisfied.Equal(sets.New(requests...))
}

func unrealizable(msg string) error {
	return errors.NewPlanningError(msg, errors.ErrGoalUnrealizable).WithPhase("create")
}
