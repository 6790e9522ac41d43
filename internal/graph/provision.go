package graph

import (
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Provision satisfies a request with a compatible offer realized by an action.
type Provision[T sets.Keyed] struct {
	request T
	offer   T
	action  *model.Action
}

// FunctionalityProvision satisfies a requested functionality.
type FunctionalityProvision = Provision[model.Functionality]

// TaskProvision satisfies a requested task.
type TaskProvision = Provision[model.Task]

// PropertyProvision satisfies a property some action requires filled.
type PropertyProvision = Provision[model.Property]

// NewProvision provisions request with an offered subject of action.
func NewProvision[T sets.Keyed](request, offer T, action *model.Action) Provision[T] {
	return Provision[T]{request: request, offer: offer, action: action}
}

// NewFunctionalityProvision provisions request with the offer.
func NewFunctionalityProvision(request model.Functionality, offer model.RealizedFunctionality) FunctionalityProvision {
	return FunctionalityProvision{request: request, offer: offer.Subject(), action: offer.Action()}
}

// NewTaskProvision provisions request with the offer.
func NewTaskProvision(request model.Task, offer model.RealizedTask) TaskProvision {
	return TaskProvision{request: request, offer: offer.Subject(), action: offer.Action()}
}

// NewPropertyProvision provisions request with the offer.
func NewPropertyProvision(request model.Property, offer model.PublishedProperty) PropertyProvision {
	return PropertyProvision{request: request, offer: offer.Subject(), action: offer.Action()}
}

// Request returns what was asked for.
func (p Provision[T]) Request() T { return p.request }

// Offer returns what the providing action actually offers.
func (p Provision[T]) Offer() T { return p.offer }

// ProvidingAction returns the action realizing the offer.
func (p Provision[T]) ProvidingAction() *model.Action { return p.action }

// Key implements sets.Keyed.
func (p Provision[T]) Key() string {
	return p.request.Key() + "=>" + p.offer.Key() + "@" + p.action.Key()
}

// ActionProvision satisfies the preconditions of a requested action with an
// optional precursor and property provisions for the filled properties the
// precursor leaves open.
type ActionProvision struct {
	requested  *model.Action
	precursor  *model.Action
	provisions sets.Set[PropertyProvision]
	key        string
}

// NewActionProvision validates and builds an action provision. precursor may
// be nil.
func NewActionProvision(requested, precursor *model.Action, provisions []PropertyProvision) (ActionProvision, error) {
	if precursor == nil {
		if err := checkWithoutPrecursor(requested, provisions); err != nil {
			return ActionProvision{}, err
		}
	} else if err := checkWithPrecursor(requested, precursor, provisions); err != nil {
		return ActionProvision{}, err
	}

	var seen sets.Set[model.Property]
	for _, pp := range provisions {
		if !seen.Add(pp.Request()) {
			return ActionProvision{}, invalidProvision(requested,
				"expecting each requested property to be provided by only one property provision")
		}
	}

	ap := ActionProvision{
		requested:  requested,
		precursor:  precursor,
		provisions: sets.New(provisions...),
	}
	ap.key = requested.Key() + "<" + precursorKey(precursor) + "<" + keyOf(ap.provisions.Items())
	return ap, nil
}

func checkWithoutPrecursor(requested *model.Action, provisions []PropertyProvision) error {
	if requested.RequiresPrecursor() {
		return invalidProvision(requested, "requested action requires a precursor")
	}
	if len(provisions) == 0 {
		return invalidProvision(requested, "expecting one or more property provisions")
	}
	pre := requested.PreConditions()
	for _, pp := range provisions {
		if !pre.IsFilled(pp.Request()) {
			return invalidProvision(requested,
				"expecting all property provisions to use a property required filled by requested action")
		}
	}
	return nil
}

func checkWithPrecursor(requested, precursor *model.Action, provisions []PropertyProvision) error {
	if !precursor.CanBePrecursorOf(requested) {
		return invalidProvision(requested, "expecting a satisfying precursor to the requested action")
	}
	unsatisfied, err := requested.FilledNotSatisfiedBy(precursor)
	if err != nil {
		return err
	}
	if len(unsatisfied) == len(requested.PreConditions().FilledProperties()) && !requested.RequiresPrecursor() {
		return invalidProvision(requested, "expecting the precursor to be required by requested action")
	}
	open := sets.New(unsatisfied...)
	for _, pp := range provisions {
		if !open.Contains(pp.Request()) {
			return invalidProvision(requested,
				"expecting all property provisions to use a property required filled by requested action "+
					"and not already provided by precursor")
		}
	}
	return nil
}

func invalidProvision(requested *model.Action, msg string) error {
	return errors.NewInvariantError(msg, errors.ErrInvalidProvision).WithSubject(requested.String())
}

func precursorKey(a *model.Action) string {
	if a == nil {
		return ""
	}
	return a.Key()
}

// RequestedAction returns the action whose preconditions are provided.
func (ap ActionProvision) RequestedAction() *model.Action { return ap.requested }

// PrecursorAction returns the precursor, or nil.
func (ap ActionProvision) PrecursorAction() *model.Action { return ap.precursor }

// HasPrecursor reports whether a precursor is part of the provision.
func (ap ActionProvision) HasPrecursor() bool { return ap.precursor != nil }

// PropertyProvisions returns the property provisions in insertion order.
func (ap ActionProvision) PropertyProvisions() []PropertyProvision { return ap.provisions.Items() }

// ProvidingActions returns the actions of the property provisions.
func (ap ActionProvision) ProvidingActions() sets.Set[*model.Action] {
	var out sets.Set[*model.Action]
	for _, pp := range ap.provisions.Items() {
		out.Add(pp.ProvidingAction())
	}
	return out
}

// RequiredActions returns the providing actions plus the precursor.
func (ap ActionProvision) RequiredActions() sets.Set[*model.Action] {
	out := ap.ProvidingActions()
	if ap.precursor != nil {
		out.Add(ap.precursor)
	}
	return out
}

// RequestedProperties returns the properties requested by the provisions.
func (ap ActionProvision) RequestedProperties() []model.Property {
	out := make([]model.Property, 0, ap.provisions.Len())
	for _, pp := range ap.provisions.Items() {
		out = append(out, pp.Request())
	}
	return out
}

// Key implements sets.Keyed.
func (ap ActionProvision) Key() string { return ap.key }
