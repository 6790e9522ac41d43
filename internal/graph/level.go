package graph

import (
	"sort"
	"strings"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Level is one layer of a planning graph. Levels are compared by identity:
// indices over a graph are keyed by the level pointers of that graph.
type Level interface {
	// RequiredActions returns the actions this level depends on.
	RequiredActions() sets.Set[*model.Action]
	// Key is a structural identity used for graph equality.
	Key() string
}

// InitialLevel satisfies the goal functionalities and tasks of a mashup.
type InitialLevel struct {
	functionalities sets.Set[FunctionalityProvision]
	tasks           sets.Set[TaskProvision]
	required        sets.Set[*model.Action]
	key             string
}

// NewInitialLevel fails when both provision sets are empty.
func NewInitialLevel(fps []FunctionalityProvision, tps []TaskProvision) (*InitialLevel, error) {
	if len(fps) == 0 && len(tps) == 0 {
		return nil, errors.NewInvariantError("expecting one or more functionality or task provisions",
			errors.ErrInvalidLevel)
	}
	l := &InitialLevel{
		functionalities: sets.New(fps...),
		tasks:           sets.New(tps...),
	}
	for _, fp := range l.functionalities.Items() {
		l.required.Add(fp.ProvidingAction())
	}
	for _, tp := range l.tasks.Items() {
		l.required.Add(tp.ProvidingAction())
	}
	l.key = "I[" + keyOf(l.functionalities.Items()) + "|" + keyOf(l.tasks.Items()) + "]"
	return l, nil
}

// FunctionalityProvisions returns the functionality provisions in insertion order.
func (l *InitialLevel) FunctionalityProvisions() []FunctionalityProvision {
	return l.functionalities.Items()
}

// TaskProvisions returns the task provisions in insertion order.
func (l *InitialLevel) TaskProvisions() []TaskProvision { return l.tasks.Items() }

// RequestedFunctionalities returns the distinct requested functionalities.
func (l *InitialLevel) RequestedFunctionalities() []model.Functionality {
	var out sets.Set[model.Functionality]
	for _, fp := range l.functionalities.Items() {
		out.Add(fp.Request())
	}
	return out.Items()
}

// RequestedTasks returns the distinct requested tasks.
func (l *InitialLevel) RequestedTasks() []model.Task {
	var out sets.Set[model.Task]
	for _, tp := range l.tasks.Items() {
		out.Add(tp.Request())
	}
	return out.Items()
}

// FunctionalityProvisionsFor returns the provisions of one requested functionality.
func (l *InitialLevel) FunctionalityProvisionsFor(f model.Functionality) []FunctionalityProvision {
	var out []FunctionalityProvision
	for _, fp := range l.functionalities.Items() {
		if fp.Request() == f {
			out = append(out, fp)
		}
	}
	return out
}

// TaskProvisionsFor returns the provisions of one requested task.
func (l *InitialLevel) TaskProvisionsFor(t model.Task) []TaskProvision {
	var out []TaskProvision
	for _, tp := range l.tasks.Items() {
		if tp.Request() == t {
			out = append(out, tp)
		}
	}
	return out
}

// RequiredActions implements Level.
func (l *InitialLevel) RequiredActions() sets.Set[*model.Action] { return l.required.Clone() }

// Key implements Level.
func (l *InitialLevel) Key() string { return l.key }

// ExtensionLevel provides the preconditions of actions required by the level
// it extends.
type ExtensionLevel struct {
	provisions sets.Set[ActionProvision]
	required   sets.Set[*model.Action]
	requested  sets.Set[*model.Action]
	key        string
}

// NewExtensionLevel fails when provisions is empty.
func NewExtensionLevel(provisions []ActionProvision) (*ExtensionLevel, error) {
	if len(provisions) == 0 {
		return nil, errors.NewInvariantError("expecting one or more action provisions", errors.ErrInvalidLevel)
	}
	l := &ExtensionLevel{provisions: sets.New(provisions...)}
	for _, ap := range l.provisions.Items() {
		l.requested.Add(ap.RequestedAction())
		l.required.AddAll(ap.RequiredActions().Items()...)
	}
	l.key = "X[" + keyOf(l.provisions.Items()) + "]"
	return l, nil
}

// ActionProvisions returns the action provisions in insertion order.
func (l *ExtensionLevel) ActionProvisions() []ActionProvision { return l.provisions.Items() }

// RequestedActions returns the actions whose preconditions this level provides.
func (l *ExtensionLevel) RequestedActions() sets.Set[*model.Action] { return l.requested.Clone() }

// ProvisionsFor returns the provisions requesting action.
func (l *ExtensionLevel) ProvisionsFor(action *model.Action) []ActionProvision {
	var out []ActionProvision
	for _, ap := range l.provisions.Items() {
		if ap.RequestedAction().Equal(action) {
			out = append(out, ap)
		}
	}
	return out
}

// CanExtendOn reports whether every requested action is required by other.
func (l *ExtensionLevel) CanExtendOn(other Level) bool {
	return l.requested.IsSubsetOf(other.RequiredActions())
}

// RequiredActions implements Level.
func (l *ExtensionLevel) RequiredActions() sets.Set[*model.Action] { return l.required.Clone() }

// Key implements Level.
func (l *ExtensionLevel) Key() string { return l.key }

func keyOf[T sets.Keyed](items []T) string {
	ks := make([]string, len(items))
	for i, it := range items {
		ks[i] = it.Key()
	}
	sort.Strings(ks)
	return strings.Join(ks, ";")
}
