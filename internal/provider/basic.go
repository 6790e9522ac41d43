package provider

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// BasicPrecursorProvider selects the widget actions that can be precursors as
// they are.
type BasicPrecursorProvider struct {
	repo model.Repository
}

// NewBasicPrecursorProvider returns a provider querying repo.
func NewBasicPrecursorProvider(repo model.Repository) *BasicPrecursorProvider {
	return &BasicPrecursorProvider{repo: repo}
}

// PrecursorActions implements PrecursorProvider.
func (p *BasicPrecursorProvider) PrecursorActions(ctx context.Context, action *model.Action) ([]*model.Action, error) {
	actions, err := p.repo.WidgetActions(ctx, action.Widget())
	if err != nil {
		return nil, err
	}
	var out sets.Set[*model.Action]
	for _, a := range actions {
		if a.CanBePrecursorOf(action) {
			out.Add(a)
		}
	}
	return out.Items(), nil
}

// BasicFunctionalityProvider provisions each request with every compatible offer.
type BasicFunctionalityProvider struct {
	repo model.Repository
}

// NewBasicFunctionalityProvider returns a provider querying repo.
func NewBasicFunctionalityProvider(repo model.Repository) *BasicFunctionalityProvider {
	return &BasicFunctionalityProvider{repo: repo}
}

// FunctionalityProvisions implements FunctionalityProvider.
func (p *BasicFunctionalityProvider) FunctionalityProvisions(ctx context.Context, requests []model.Functionality) ([]graph.FunctionalityProvision, error) {
	return basicProvisions(ctx, requests, p.repo.FunctionalityOffers)
}

// BasicTaskProvider provisions each request with every compatible offer.
type BasicTaskProvider struct {
	repo model.Repository
}

// NewBasicTaskProvider returns a provider querying repo.
func NewBasicTaskProvider(repo model.Repository) *BasicTaskProvider {
	return &BasicTaskProvider{repo: repo}
}

// TaskProvisions implements TaskProvider.
func (p *BasicTaskProvider) TaskProvisions(ctx context.Context, requests []model.Task) ([]graph.TaskProvision, error) {
	return basicProvisions(ctx, requests, p.repo.TaskOffers)
}

// BasicPropertyProvider provisions each request with every compatible offer.
type BasicPropertyProvider struct {
	repo model.Repository
}

// NewBasicPropertyProvider returns a provider querying repo.
func NewBasicPropertyProvider(repo model.Repository) *BasicPropertyProvider {
	return &BasicPropertyProvider{repo: repo}
}

// PropertyProvisions implements PropertyProvider.
func (p *BasicPropertyProvider) PropertyProvisions(ctx context.Context, requests []model.Property) ([]graph.PropertyProvision, error) {
	return basicProvisions(ctx, requests, p.repo.PropertyOffers)
}

// offer is the shape shared by RealizedFunctionality, RealizedTask and
// PublishedProperty.
type offer[T sets.Keyed] interface {
	sets.Keyed
	Subject() T
	Action() *model.Action
}

func basicProvisions[T sets.Keyed, O offer[T]](
	ctx context.Context,
	requests []T,
	offers func(context.Context, T) ([]O, error),
) ([]graph.Provision[T], error) {
	var out sets.Set[graph.Provision[T]]
	for _, r := range sets.New(requests...).Items() {
		found, err := offers(ctx, r)
		if err != nil {
			return nil, err
		}
		for _, o := range found {
			out.Add(graph.NewProvision(r, o.Subject(), o.Action()))
		}
	}
	return out.Items(), nil
}
