package rating

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// DefaultStrategy prefers plans with fewer steps and closer matches.
//
// Every required action scores one plus its interactions. Functionality and
// task provisions score the repository distance from request to offer, and
// property provisions the distance between their types. The strategy
// abstains on an action of an extension level that has no interactions, and
// on a property provision whose request and offer differ in name.
func DefaultStrategy(repo model.Repository) Strategy {
	distance := func(ctx context.Context, request, offer model.Identifier) (Score, error) {
		d, err := repo.Distance(ctx, request, offer)
		if err != nil {
			return Abstain(), errors.Wrapf(err, "failed to measure distance from %s to %s", request, offer)
		}
		return Scored(d), nil
	}

	return Strategy{
		FunctionalityProvision: func(ctx context.Context, e Element) (Score, error) {
			fp := e.FunctionalityProvision
			return distance(ctx, fp.Request().Identifier, fp.Offer().Identifier)
		},
		TaskProvision: func(ctx context.Context, e Element) (Score, error) {
			tp := e.TaskProvision
			return distance(ctx, tp.Request().Identifier, tp.Offer().Identifier)
		},
		PropertyProvision: func(ctx context.Context, e Element) (Score, error) {
			pp := e.PropertyProvision
			if pp.Request().Name != pp.Offer().Name {
				return Abstain(), nil
			}
			return distance(ctx, pp.Request().Type.Identifier, pp.Offer().Type.Identifier)
		},
		Action: func(_ context.Context, e Element) (Score, error) {
			n := len(e.Action.Interactions())
			if _, extension := e.Level.(*graph.ExtensionLevel); extension && n == 0 {
				return Abstain(), nil
			}
			return Scored(1 + n), nil
		},
	}
}
