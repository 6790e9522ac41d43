package model

import (
	"strings"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Action is an immutable unit of widget behavior. Composite actions, built by
// Compose, additionally remember the actions they were composed of.
//
// Two actions are equal when widget, preconditions, postconditions,
// publications, realizations and interactions are equal. The name is a label
// for humans and does not take part in equality.
type Action struct {
	name            string
	widget          Widget
	pre             PropositionSet
	effects         EffectSet
	post            PropositionSet
	published       sets.Set[Property]
	tasks           sets.Set[Task]
	functionalities sets.Set[Functionality]
	interactions    sets.Set[Interaction]
	members         []*Action
	key             string
}

// ActionOption configures an action under construction.
type ActionOption func(*Action)

// WithName sets the display name.
func WithName(name string) ActionOption {
	return func(a *Action) { a.name = name }
}

// WithPreConditions sets the preconditions.
func WithPreConditions(pre PropositionSet) ActionOption {
	return func(a *Action) { a.pre = pre }
}

// WithEffects sets the effects.
func WithEffects(effects EffectSet) ActionOption {
	return func(a *Action) { a.effects = effects }
}

// WithPublished adds published properties.
func WithPublished(ps ...Property) ActionOption {
	return func(a *Action) { a.published.AddAll(ps...) }
}

// WithTasks adds realized tasks.
func WithTasks(ts ...Task) ActionOption {
	return func(a *Action) { a.tasks.AddAll(ts...) }
}

// WithFunctionalities adds realized functionalities.
func WithFunctionalities(fs ...Functionality) ActionOption {
	return func(a *Action) { a.functionalities.AddAll(fs...) }
}

// WithInteractions adds user interactions.
func WithInteractions(is ...Interaction) ActionOption {
	return func(a *Action) { a.interactions.AddAll(is...) }
}

// NewAction builds an atomic action of widget. Without options the action has
// no preconditions and no effects.
func NewAction(widget Widget, opts ...ActionOption) *Action {
	a := &Action{
		widget:  widget,
		pre:     EmptyPropositions(),
		effects: NoEffects(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.finish()
	return a
}

// NewMaintenanceAction builds a synthetic action that only asserts pre. It is
// used during composition to stand in for a single property.
func NewMaintenanceAction(widget Widget, pre PropositionSet) *Action {
	return NewAction(widget, WithPreConditions(pre))
}

func (a *Action) finish() {
	a.post = a.effects.PostConditions(a.pre)
	a.key = strings.Join([]string{
		a.widget.Key(),
		a.pre.Key(),
		a.post.Key(),
		sortedKeys(a.published),
		sortedKeys(a.tasks),
		sortedKeys(a.functionalities),
		sortedKeys(a.interactions),
	}, "#")
}

// Name returns the display name. Unnamed composites join their member names.
func (a *Action) Name() string {
	if a.name != "" {
		return a.name
	}
	if len(a.members) > 0 {
		names := make([]string, len(a.members))
		for i, m := range a.members {
			names[i] = m.Name()
		}
		return strings.Join(names, "+")
	}
	if a.IsMaintenance() {
		return "maintain" + a.pre.String()
	}
	return "action"
}

// Widget returns the owning widget.
func (a *Action) Widget() Widget { return a.widget }

// PreConditions returns the propositions that must hold before the action.
func (a *Action) PreConditions() PropositionSet { return a.pre }

// Effects returns the state transition.
func (a *Action) Effects() EffectSet { return a.effects }

// PostConditions returns the propositions that hold after the action.
func (a *Action) PostConditions() PropositionSet { return a.post }

// PublishedProperties returns the properties the action publishes.
func (a *Action) PublishedProperties() []Property { return a.published.Items() }

// RealizedTasks returns the tasks the action realizes.
func (a *Action) RealizedTasks() []Task { return a.tasks.Items() }

// RealizedFunctionalities returns the functionalities the action realizes.
func (a *Action) RealizedFunctionalities() []Functionality { return a.functionalities.Items() }

// Interactions returns the user interactions of the action.
func (a *Action) Interactions() []Interaction { return a.interactions.Items() }

// Members returns the composed actions of a composite, or nil.
func (a *Action) Members() []*Action {
	if len(a.members) == 0 {
		return nil
	}
	out := make([]*Action, len(a.members))
	copy(out, a.members)
	return out
}

// IsComposite reports whether the action was built by Compose.
func (a *Action) IsComposite() bool { return len(a.members) > 0 }

// Key implements sets.Keyed.
func (a *Action) Key() string { return a.key }

// Equal reports structural equality.
func (a *Action) Equal(o *Action) bool {
	return a == o || (a != nil && o != nil && a.key == o.key)
}

func (a *Action) String() string {
	return a.widget.String() + "/" + a.Name()
}

// IsEnabled reports whether the action has no preconditions.
func (a *Action) IsEnabled() bool { return a.pre.IsEmpty() }

// IsMaintenance reports whether the action neither publishes, realizes nor
// interacts, and leaves its preconditions unchanged.
func (a *Action) IsMaintenance() bool {
	return a.published.IsEmpty() &&
		a.tasks.IsEmpty() &&
		a.functionalities.IsEmpty() &&
		a.interactions.IsEmpty() &&
		a.pre.Equal(a.post)
}

// Publishes reports whether p is a published property.
func (a *Action) Publishes(p Property) bool { return a.published.Contains(p) }

// Realizes reports whether t is a realized task.
func (a *Action) Realizes(t Task) bool { return a.tasks.Contains(t) }

// RealizesFunctionality reports whether f is a realized functionality.
func (a *Action) RealizesFunctionality(f Functionality) bool { return a.functionalities.Contains(f) }

// RequiresPrecursor reports whether some property must be cleared beforehand.
func (a *Action) RequiresPrecursor() bool { return !a.pre.cleared.IsEmpty() }

// SameWidget reports whether both actions belong to the same widget.
func (a *Action) SameWidget(o *Action) bool { return a.widget == o.widget }

// CanBePrecursorOf reports whether a belongs to o's widget and its
// postconditions clear every property o requires cleared.
func (a *Action) CanBePrecursorOf(o *Action) bool {
	if !a.SameWidget(o) {
		return false
	}
	for _, p := range o.pre.cleared.Items() {
		if !a.post.IsCleared(p) {
			return false
		}
	}
	return true
}

// FilledNotSatisfiedBy returns the properties a requires filled that the
// precursor's postconditions leave unfilled.
func (a *Action) FilledNotSatisfiedBy(precursor *Action) ([]Property, error) {
	if !a.SameWidget(precursor) {
		return nil, errors.NewInvariantError("expecting an action of the same widget", errors.ErrForeignWidget).
			WithSubject(precursor.String())
	}
	var out []Property
	for _, p := range a.pre.filled.Items() {
		if !precursor.post.IsFilled(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Represents reports whether a stands for o: atomic actions represent only
// equal actions, composites also represent whatever their members represent.
func (a *Action) Represents(o *Action) bool {
	if a.Equal(o) {
		return true
	}
	for _, m := range a.members {
		if m.Represents(o) {
			return true
		}
	}
	return false
}

// IsComposable reports whether the actions can be merged into one: the set is
// non-empty, all actions belong to one widget and no two distinct actions are
// mutex.
func IsComposable(actions []*Action) bool {
	if len(actions) == 0 {
		return false
	}
	first := actions[0]
	for _, x := range actions {
		if !x.SameWidget(first) {
			return false
		}
		for _, y := range actions {
			if !x.Equal(y) && areMutex(x, y) {
				return false
			}
		}
	}
	return true
}

// areMutex checks one direction; callers test both orders.
func areMutex(x, y *Action) bool {
	// competing needs
	if x.pre.cleared.Intersects(y.pre.filled) {
		return true
	}
	// inconsistent effects
	if x.post.cleared.Intersects(y.post.filled) {
		return true
	}
	// interference
	return x.pre.cleared.Intersects(y.post.filled)
}

// Compose merges actions into one. A single action is returned unchanged; two
// or more must be composable and yield a composite holding the union of every
// field.
func Compose(actions []*Action) (*Action, error) {
	distinct := sets.New(actions...).Items()
	switch len(distinct) {
	case 0:
		return nil, errors.NewInvariantError("expecting one or more actions", errors.ErrInvalidInput)
	case 1:
		return distinct[0], nil
	}
	if !IsComposable(distinct) {
		return nil, errors.NewInvariantError("expecting composable actions", errors.ErrNotComposable).
			WithSubject(distinct[0].widget.String())
	}

	var cleared, filled, toClear, toFill sets.Set[Property]
	c := &Action{widget: distinct[0].widget, members: distinct}
	for _, a := range distinct {
		cleared.AddAll(a.pre.ClearedProperties()...)
		filled.AddAll(a.pre.FilledProperties()...)
		toClear.AddAll(a.effects.ToClear()...)
		toFill.AddAll(a.effects.ToFill()...)
		c.published.AddAll(a.PublishedProperties()...)
		c.tasks.AddAll(a.RealizedTasks()...)
		c.functionalities.AddAll(a.RealizedFunctionalities()...)
		c.interactions.AddAll(a.Interactions()...)
	}
	c.pre = newPropositionSet(cleared, filled)
	c.effects = EffectSet{props: newPropositionSet(toClear, toFill)}
	c.finish()
	return c, nil
}
