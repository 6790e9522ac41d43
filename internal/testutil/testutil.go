// Package testutil provides testing utilities for cobalt tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/cobalt/internal/model"
)

// Repository is an in-memory model.Repository. Offers match requests exactly
// and every distinct pair of identifiers is one hop apart.
type Repository struct {
	actions []*model.Action

	// Err, when set, is returned by every query.
	Err error
	// Queries counts repository calls.
	Queries int
}

// NewRepository returns a repository holding actions.
func NewRepository(actions ...*model.Action) *Repository {
	return &Repository{actions: actions}
}

// Add appends actions to the repository.
func (r *Repository) Add(actions ...*model.Action) {
	r.actions = append(r.actions, actions...)
}

// WidgetActions implements model.Repository.
func (r *Repository) WidgetActions(_ context.Context, w model.Widget) ([]*model.Action, error) {
	r.Queries++
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*model.Action
	for _, a := range r.actions {
		if a.Widget() == w {
			out = append(out, a)
		}
	}
	return out, nil
}

// FunctionalityOffers implements model.Repository.
func (r *Repository) FunctionalityOffers(_ context.Context, f model.Functionality) ([]model.RealizedFunctionality, error) {
	r.Queries++
	if r.Err != nil {
		return nil, r.Err
	}
	var out []model.RealizedFunctionality
	for _, a := range r.actions {
		if a.RealizesFunctionality(f) {
			o, err := model.NewRealizedFunctionality(f, a)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
	}
	return out, nil
}

// TaskOffers implements model.Repository.
func (r *Repository) TaskOffers(_ context.Context, t model.Task) ([]model.RealizedTask, error) {
	r.Queries++
	if r.Err != nil {
		return nil, r.Err
	}
	var out []model.RealizedTask
	for _, a := range r.actions {
		if a.Realizes(t) {
			o, err := model.NewRealizedTask(t, a)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
	}
	return out, nil
}

// PropertyOffers implements model.Repository.
func (r *Repository) PropertyOffers(_ context.Context, p model.Property) ([]model.PublishedProperty, error) {
	r.Queries++
	if r.Err != nil {
		return nil, r.Err
	}
	var out []model.PublishedProperty
	for _, a := range r.actions {
		if a.Publishes(p) {
			o, err := model.NewPublishedProperty(p, a)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
	}
	return out, nil
}

// Distance implements model.Repository.
func (r *Repository) Distance(_ context.Context, request, offer model.Identifier) (int, error) {
	r.Queries++
	if r.Err != nil {
		return 0, r.Err
	}
	if request == offer {
		return 0, nil
	}
	return 1, nil
}

// WriteFiles writes files (relative path to content) below a fresh temporary
// directory and returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file %s: %v", path, err)
		}
	}
	return dir
}
