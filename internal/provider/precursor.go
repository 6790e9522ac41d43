package provider

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/combinatorics"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// MinimalPrecursorProvider composes minimal precursors from widget actions
// that each clear part of what an action requires cleared.
//
// Maintenance actions asserting a single cleared property stand in for
// properties that are already cleared. A composite is accepted when it is not
// itself a maintenance action and can be a precursor; its supersets are then
// skipped, so only minimal combinations are returned.
type MinimalPrecursorProvider struct {
	repo model.Repository
}

// NewMinimalPrecursorProvider returns a provider querying repo.
func NewMinimalPrecursorProvider(repo model.Repository) *MinimalPrecursorProvider {
	return &MinimalPrecursorProvider{repo: repo}
}

// PrecursorActions implements PrecursorProvider.
func (p *MinimalPrecursorProvider) PrecursorActions(ctx context.Context, action *model.Action) ([]*model.Action, error) {
	actions, err := p.repo.WidgetActions(ctx, action.Widget())
	if err != nil {
		return nil, err
	}

	var partials sets.Set[*model.Action]
	for _, a := range actions {
		if isPartialPrecursor(a, action) {
			partials.Add(a)
		}
	}
	for _, prop := range action.PreConditions().ClearedProperties() {
		partials.Add(model.NewMaintenanceAction(action.Widget(), model.Cleared(prop)))
	}

	var out sets.Set[*model.Action]
	ps := combinatorics.NewOrderedPowerSet(partials.Items())
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		combination, ok := ps.Next()
		if !ok {
			break
		}
		if !model.IsComposable(combination) {
			ps.ExcludeSupersetsOf(combination)
			continue
		}
		composite, err := model.Compose(combination)
		if err != nil {
			return nil, err
		}
		if !composite.IsMaintenance() && composite.CanBePrecursorOf(action) {
			out.Add(composite)
			ps.ExcludeSupersetsOf(combination)
		}
	}
	return out.Items(), nil
}

// isPartialPrecursor reports whether candidate clears a property action
// requires cleared. The first such property the candidate touches decides:
// filling it disqualifies the candidate.
func isPartialPrecursor(candidate, action *model.Action) bool {
	post := candidate.PostConditions()
	for _, prop := range action.PreConditions().ClearedProperties() {
		if post.IsCleared(prop) {
			return true
		}
		if post.IsFilled(prop) {
			return false
		}
	}
	return false
}

// ExtendedPrecursorProvider extends the precursors of another provider with
// widget actions filling properties the action requires filled, so one
// composite precursor also supplies some of those properties.
//
// Unlike MinimalPrecursorProvider no minimality pruning takes place: every
// composable extension is returned alongside the base precursors.
type ExtendedPrecursorProvider struct {
	repo model.Repository
	base PrecursorProvider
}

// NewExtendedPrecursorProvider wraps base.
func NewExtendedPrecursorProvider(repo model.Repository, base PrecursorProvider) *ExtendedPrecursorProvider {
	return &ExtendedPrecursorProvider{repo: repo, base: base}
}

// PrecursorActions implements PrecursorProvider.
func (p *ExtendedPrecursorProvider) PrecursorActions(ctx context.Context, action *model.Action) ([]*model.Action, error) {
	precursors, err := p.base.PrecursorActions(ctx, action)
	if err != nil {
		return nil, err
	}
	actions, err := p.repo.WidgetActions(ctx, action.Widget())
	if err != nil {
		return nil, err
	}

	needed := action.PreConditions().Filled()
	var filling sets.Set[*model.Action]
	for _, a := range actions {
		if a.PostConditions().Filled().Intersects(needed) {
			filling.Add(a)
		}
	}
	for _, prop := range action.PreConditions().FilledProperties() {
		filling.Add(model.NewMaintenanceAction(action.Widget(), model.Filled(prop)))
	}

	out := sets.New(precursors...)
	for _, precursor := range precursors {
		ps := combinatorics.NewOrderedPowerSet(filling.Items())
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			subset, ok := ps.Next()
			if !ok {
				break
			}
			combination := append([]*model.Action{precursor}, subset...)
			if !model.IsComposable(combination) {
				ps.ExcludeSupersetsOf(subset)
				continue
			}
			composite, err := model.Compose(combination)
			if err != nil {
				return nil, err
			}
			out.Add(composite)
		}
	}
	return out.Items(), nil
}
