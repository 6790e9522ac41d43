package graph

import (
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Plan is a graph that can be executed as is: every request has exactly one
// provision, every action not provided by a later level is enabled and no
// level holds mutex actions.
type Plan struct {
	graph *Graph
}

// NewPlan validates g as a plan.
func NewPlan(g *Graph) (*Plan, error) {
	if err := checkPlan(g); err != nil {
		return nil, err
	}
	return &Plan{graph: g}, nil
}

// Graph returns the validated graph.
func (p *Plan) Graph() *Graph { return p.graph }

// Key implements sets.Keyed.
func (p *Plan) Key() string { return p.graph.Key() }

// Equal reports whether both plans have equal graphs.
func (p *Plan) Equal(o *Plan) bool { return p.graph.Equal(o.graph) }

func checkPlan(g *Graph) error {
	il := g.InitialLevel()
	for _, f := range il.RequestedFunctionalities() {
		if len(il.FunctionalityProvisionsFor(f)) > 1 {
			return invalidPlan("expecting graph with single provision for each requested functionality")
		}
	}
	for _, t := range il.RequestedTasks() {
		if len(il.TaskProvisionsFor(t)) > 1 {
			return invalidPlan("expecting graph with single provision for each requested task")
		}
	}

	var requested sets.Set[*model.Action]
	for _, xl := range g.ExtensionLevelsReversed() {
		for _, a := range xl.RequestedActions().Items() {
			if len(xl.ProvisionsFor(a)) > 1 {
				return invalidPlan("expecting graph with single provision for each requested action")
			}
		}
		if err := checkRequiredActions(xl, requested); err != nil {
			return err
		}
		requested = xl.RequestedActions()
	}
	if err := checkRequiredActions(il, requested); err != nil {
		return err
	}

	if NewMutexIndex(g).HasAnyMutexes() {
		return invalidPlan("expecting graph with only non-mutex actions")
	}
	return nil
}

func checkRequiredActions(level Level, requested sets.Set[*model.Action]) error {
	for _, a := range level.RequiredActions().Items() {
		if !requested.Contains(a) && !a.IsEnabled() {
			return invalidPlan("expecting graph with only satisfied actions")
		}
	}
	return nil
}

func invalidPlan(msg string) error {
	return errors.NewInvariantError(msg, errors.ErrPlanInvalid)
}
