package provider

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/combinatorics"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// ComposingFunctionalityProvider provisions functionalities with composites of
// offering actions.
type ComposingFunctionalityProvider struct {
	repo model.Repository
}

// NewComposingFunctionalityProvider returns a provider querying repo.
func NewComposingFunctionalityProvider(repo model.Repository) *ComposingFunctionalityProvider {
	return &ComposingFunctionalityProvider{repo: repo}
}

// FunctionalityProvisions implements FunctionalityProvider.
func (p *ComposingFunctionalityProvider) FunctionalityProvisions(ctx context.Context, requests []model.Functionality) ([]graph.FunctionalityProvision, error) {
	return composeProvisions(ctx, requests, p.repo.FunctionalityOffers, (*model.Action).RealizedFunctionalities)
}

// ComposingTaskProvider provisions tasks with composites of offering actions.
type ComposingTaskProvider struct {
	repo model.Repository
}

// NewComposingTaskProvider returns a provider querying repo.
func NewComposingTaskProvider(repo model.Repository) *ComposingTaskProvider {
	return &ComposingTaskProvider{repo: repo}
}

// TaskProvisions implements TaskProvider.
func (p *ComposingTaskProvider) TaskProvisions(ctx context.Context, requests []model.Task) ([]graph.TaskProvision, error) {
	return composeProvisions(ctx, requests, p.repo.TaskOffers, (*model.Action).RealizedTasks)
}

// ComposingPropertyProvider provisions properties with composites of
// publishing actions.
type ComposingPropertyProvider struct {
	repo model.Repository
}

// NewComposingPropertyProvider returns a provider querying repo.
func NewComposingPropertyProvider(repo model.Repository) *ComposingPropertyProvider {
	return &ComposingPropertyProvider{repo: repo}
}

// PropertyProvisions implements PropertyProvider.
func (p *ComposingPropertyProvider) PropertyProvisions(ctx context.Context, requests []model.Property) ([]graph.PropertyProvision, error) {
	return composeProvisions(ctx, requests, p.repo.PropertyOffers, (*model.Action).PublishedProperties)
}

// offerIndex relates offers to the widgets of their actions, to their
// subjects and to the requests they answer.
type offerIndex[T sets.Keyed, O offer[T]] struct {
	widgets  sets.Set[model.Widget]
	actions  map[model.Widget]*sets.Set[*model.Action]
	subjects map[string]*sets.Set[O]
	requests map[string]*sets.Set[T]
}

func newOfferIndex[T sets.Keyed, O offer[T]]() *offerIndex[T, O] {
	return &offerIndex[T, O]{
		actions:  make(map[model.Widget]*sets.Set[*model.Action]),
		subjects: make(map[string]*sets.Set[O]),
		requests: make(map[string]*sets.Set[T]),
	}
}

func (ix *offerIndex[T, O]) add(request T, o O) {
	w := o.Action().Widget()
	ix.widgets.Add(w)
	bucket(ix.actions, w).Add(o.Action())
	bucket(ix.subjects, o.Subject().Key()).Add(o)
	bucket(ix.requests, o.Key()).Add(request)
}

func bucket[K comparable, V sets.Keyed](m map[K]*sets.Set[V], k K) *sets.Set[V] {
	s, ok := m[k]
	if !ok {
		s = &sets.Set[V]{}
		m[k] = s
	}
	return s
}

func (ix *offerIndex[T, O]) provisionsFor(composite *model.Action, subjects []T, out *sets.Set[graph.Provision[T]]) {
	for _, subject := range subjects {
		offers, ok := ix.subjects[subject.Key()]
		if !ok {
			continue
		}
		for _, o := range offers.Items() {
			for _, r := range ix.requests[o.Key()].Items() {
				out.Add(graph.NewProvision(r, o.Subject(), composite))
			}
		}
	}
}

// composeProvisions enumerates, per widget, the composable subsets of offering
// actions and provisions every request whose offered subject the composite
// covers.
func composeProvisions[T sets.Keyed, O offer[T]](
	ctx context.Context,
	requests []T,
	offers func(context.Context, T) ([]O, error),
	subjects func(*model.Action) []T,
) ([]graph.Provision[T], error) {
	ix := newOfferIndex[T, O]()
	for _, r := range sets.New(requests...).Items() {
		found, err := offers(ctx, r)
		if err != nil {
			return nil, err
		}
		for _, o := range found {
			ix.add(r, o)
		}
	}

	var out sets.Set[graph.Provision[T]]
	for _, w := range ix.widgets.Items() {
		ps := combinatorics.NewOrderedPowerSet(ix.actions[w].Items())
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
			ix.provisionsFor(composite, subjects(composite), &out)
		}
	}
	return out.Items(), nil
}
