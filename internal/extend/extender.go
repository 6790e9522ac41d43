package extend

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/combinatorics"
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/provider"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Extender adds one extension level to a graph.
type Extender interface {
	ExtendGraph(ctx context.Context, g *graph.Graph) (*graph.Graph, error)
}

// DefaultExtender provides the preconditions of every action of the last
// level that is not yet enabled. Precursors clear what an action needs
// cleared; property provisions fill what the precursor leaves unfilled.
type DefaultExtender struct {
	precursors provider.PrecursorProvider
	properties provider.PropertyProvider
	detector   CycleDetector
}

// NewDefaultExtender returns an extender using the given collaborators.
func NewDefaultExtender(pp provider.PrecursorProvider, prop provider.PropertyProvider, detector CycleDetector) *DefaultExtender {
	return &DefaultExtender{precursors: pp, properties: prop, detector: detector}
}

// candidate is a potential action provision: a requested action, an optional
// precursor and the filled properties still to be provided.
type candidate struct {
	request   *model.Action
	precursor *model.Action
	needed    []model.Property
}

// ExtendGraph implements Extender.
func (x *DefaultExtender) ExtendGraph(ctx context.Context, g *graph.Graph) (*graph.Graph, error) {
	unsatisfied := unsatisfiedActions(g)
	if len(unsatisfied) == 0 {
		return nil, errors.Invalidf("cannot extend satisfied graph")
	}

	candidates, err := x.findCandidates(ctx, unsatisfied, g)
	if err != nil {
		return nil, err
	}
	index, err := x.indexProvisions(ctx, candidates)
	if err != nil {
		return nil, err
	}

	var aps sets.Set[graph.ActionProvision]
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(c.needed) == 0 {
			ap, err := graph.NewActionProvision(c.request, c.precursor, nil)
			if err != nil {
				return nil, err
			}
			aps.Add(ap)
			continue
		}
		it := index.combinations(c.needed).Iterator()
		for {
			combination, ok := it.Next()
			if !ok {
				break
			}
			if !x.acceptable(c, combination, g) {
				continue
			}
			ap, err := graph.NewActionProvision(c.request, c.precursor, combination)
			if err != nil {
				return nil, err
			}
			aps.Add(ap)
		}
	}

	if aps.IsEmpty() {
		return nil, errors.NewPlanningError("cannot satisfy any action", errors.ErrNoViableExtension).
			WithDepth(g.Depth()).WithPhase("extend")
	}
	level, err := graph.NewExtensionLevel(aps.Items())
	if err != nil {
		return nil, err
	}
	return g.ExtendWith(level)
}

// findCandidates pairs each action with every precursor that neither closes
// a cycle nor is useless to it. An action that does not require a precursor
// is a candidate on its own when no such precursor remains.
func (x *DefaultExtender) findCandidates(ctx context.Context, actions []*model.Action, g *graph.Graph) ([]candidate, error) {
	var out []candidate
	for _, ra := range actions {
		precursors, err := x.precursors.PrecursorActions(ctx, ra)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to provide precursors for %s", ra)
		}

		before := len(out)
		for _, pa := range precursors {
			if x.detector.CreatesCycleVia(pa, ra, g) {
				continue
			}
			needed, err := ra.FilledNotSatisfiedBy(pa)
			if err != nil {
				return nil, err
			}
			if !ra.RequiresPrecursor() && len(needed) == len(ra.PreConditions().FilledProperties()) {
				continue
			}
			out = append(out, candidate{request: ra, precursor: pa, needed: needed})
		}
		if len(out) == before && !ra.RequiresPrecursor() {
			out = append(out, candidate{request: ra, needed: ra.PreConditions().FilledProperties()})
		}
	}
	return out, nil
}

// acceptable reports whether the providing actions of combination are
// pairwise non-representing and none of them closes a cycle via the
// candidate's request.
func (x *DefaultExtender) acceptable(c candidate, combination []graph.PropertyProvision, g *graph.Graph) bool {
	for i, pp1 := range combination {
		a1 := pp1.ProvidingAction()
		for j, pp2 := range combination {
			a2 := pp2.ProvidingAction()
			if i != j && !a1.Equal(a2) && a1.Represents(a2) {
				return false
			}
		}
	}
	for _, pp := range combination {
		if x.detector.CreatesCycleVia(pp.ProvidingAction(), c.request, g) {
			return false
		}
	}
	return true
}

func (x *DefaultExtender) indexProvisions(ctx context.Context, candidates []candidate) (provisionIndex, error) {
	var needed sets.Set[model.Property]
	for _, c := range candidates {
		needed.AddAll(c.needed...)
	}
	ix := make(provisionIndex)
	if needed.IsEmpty() {
		return ix, nil
	}
	pps, err := x.properties.PropertyProvisions(ctx, needed.Items())
	if err != nil {
		return nil, errors.Wrap(err, "failed to provide properties")
	}
	for _, pp := range pps {
		k := pp.Request().Key()
		ix[k] = append(ix[k], pp)
	}
	return ix, nil
}

// provisionIndex groups property provisions by requested property.
type provisionIndex map[string][]graph.PropertyProvision

// combinations returns the product of the provisions for each property. The
// product is empty when any property has no provision.
func (ix provisionIndex) combinations(properties []model.Property) combinatorics.ProductSet[graph.PropertyProvision] {
	groups := make([][]graph.PropertyProvision, 0, len(properties))
	for _, p := range properties {
		pps := ix[p.Key()]
		if len(pps) == 0 {
			return combinatorics.EmptyProduct[graph.PropertyProvision]()
		}
		groups = append(groups, pps)
	}
	ps, err := combinatorics.NewProductSet(groups)
	if err != nil {
		return combinatorics.EmptyProduct[graph.PropertyProvision]()
	}
	return ps
}

func unsatisfiedActions(g *graph.Graph) []*model.Action {
	var out []*model.Action
	for _, a := range g.LastLevel().RequiredActions().Items() {
		if !a.IsEnabled() {
			out = append(out, a)
		}
	}
	return out
}
