package api

import (
	"strings"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/planner"
)

// MashupJSON names the goal functionalities and tasks.
type MashupJSON struct {
	Functionalities []string `json:"functionalities,omitempty"`
	Tasks           []string `json:"tasks,omitempty"`
}

// CompositionJSON selects how actions are composed.
type CompositionJSON struct {
	PrecursorActions       string `json:"precursorActions,omitempty"`
	FunctionalityProviders bool   `json:"functionalityProviders,omitempty"`
	PropertyProviders      bool   `json:"propertyProviders,omitempty"`
}

// PlanRequest is the body of a planning request. Omitted depths default to
// the full range. Strategy is a shorthand for actionComposition.precursorActions.
type PlanRequest struct {
	Mashup            MashupJSON       `json:"mashup"`
	MinDepth          *int             `json:"minDepth,omitempty"`
	MaxDepth          *int             `json:"maxDepth,omitempty"`
	ActionComposition *CompositionJSON `json:"actionComposition,omitempty"`
	Strategy          string           `json:"strategy,omitempty"`
	Limit             int              `json:"limit,omitempty"`
}

// Problem builds the planning problem of the request.
func (r PlanRequest) Problem() (planner.Problem, error) {
	var fs []model.Functionality
	for _, id := range r.Mashup.Functionalities {
		if strings.TrimSpace(id) == "" {
			return planner.Problem{}, errors.NewValidationError("empty functionality").WithField("mashup.functionalities")
		}
		fs = append(fs, model.NewFunctionality(id))
	}
	var ts []model.Task
	for _, id := range r.Mashup.Tasks {
		if strings.TrimSpace(id) == "" {
			return planner.Problem{}, errors.NewValidationError("empty task").WithField("mashup.tasks")
		}
		ts = append(ts, model.NewTask(id))
	}
	m, err := model.NewMashup(fs, ts)
	if err != nil {
		return planner.Problem{}, err
	}

	p := planner.NewProblem(m)
	if r.MinDepth != nil {
		p.MinDepth = *r.MinDepth
	}
	if r.MaxDepth != nil {
		p.MaxDepth = *r.MaxDepth
	}
	if err := p.Validate(); err != nil {
		return planner.Problem{}, err
	}
	if r.Limit < 0 {
		return planner.Problem{}, errors.NewValidationError("expecting a non-negative limit").
			WithField("limit").WithValue(r.Limit)
	}
	return p, nil
}

// CompositionStrategy builds the strategy of the request on top of def.
func (r PlanRequest) CompositionStrategy(def planner.CompositionStrategy) (planner.CompositionStrategy, error) {
	s := def
	name := r.Strategy
	if c := r.ActionComposition; c != nil {
		if c.PrecursorActions != "" {
			name = c.PrecursorActions
		}
		s.ComposeFunctionalities = c.FunctionalityProviders
		s.ComposeProperties = c.PropertyProviders
	}
	if name != "" {
		ps, err := planner.ParsePrecursorStrategy(name)
		if err != nil {
			return planner.CompositionStrategy{}, err
		}
		s.Precursors = ps
	}
	return s, nil
}
