package catalog

import (
	"context"
	"sync"

	"github.com/Iron-Ham/cobalt/internal/model"
)

// Reloadable is a repository whose backing repository can be swapped while
// planning jobs use it. Each query is answered by the repository active when
// it starts.
type Reloadable struct {
	mu   sync.RWMutex
	repo model.Repository
}

var _ model.Repository = (*Reloadable)(nil)

// NewReloadable returns a Reloadable backed by repo.
func NewReloadable(repo model.Repository) *Reloadable {
	return &Reloadable{repo: repo}
}

// Swap replaces the backing repository and returns the previous one.
func (r *Reloadable) Swap(repo model.Repository) model.Repository {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.repo
	r.repo = repo
	return old
}

// Current returns the backing repository.
func (r *Reloadable) Current() model.Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.repo
}

// WidgetActions implements model.Repository.
func (r *Reloadable) WidgetActions(ctx context.Context, w model.Widget) ([]*model.Action, error) {
	return r.Current().WidgetActions(ctx, w)
}

// FunctionalityOffers implements model.Repository.
func (r *Reloadable) FunctionalityOffers(ctx context.Context, request model.Functionality) ([]model.RealizedFunctionality, error) {
	return r.Current().FunctionalityOffers(ctx, request)
}

// TaskOffers implements model.Repository.
func (r *Reloadable) TaskOffers(ctx context.Context, request model.Task) ([]model.RealizedTask, error) {
	return r.Current().TaskOffers(ctx, request)
}

// PropertyOffers implements model.Repository.
func (r *Reloadable) PropertyOffers(ctx context.Context, request model.Property) ([]model.PublishedProperty, error) {
	return r.Current().PropertyOffers(ctx, request)
}

// Distance implements model.Repository.
func (r *Reloadable) Distance(ctx context.Context, request, offer model.Identifier) (int, error) {
	return r.Current().Distance(ctx, request, offer)
}
