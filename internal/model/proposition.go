package model

import (
	"sort"
	"strings"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Property is a named, typed piece of state a widget tracks.
type Property struct {
	Name string
	Type Type
}

// NewProperty returns a property with the given name and type identifier.
func NewProperty(name, typ string) Property {
	return Property{Name: name, Type: NewType(typ)}
}

// Key implements sets.Keyed.
func (p Property) Key() string { return p.Name + "|" + p.Type.Key() }

func (p Property) String() string { return p.Name + ":" + p.Type.String() }

// Proposition states that a property is filled or cleared.
type Proposition struct {
	Property Property
	Filled   bool
}

// Negation returns the opposite proposition on the same property.
func (p Proposition) Negation() Proposition {
	return Proposition{Property: p.Property, Filled: !p.Filled}
}

// Key implements sets.Keyed.
func (p Proposition) Key() string {
	if p.Filled {
		return "+" + p.Property.Key()
	}
	return "-" + p.Property.Key()
}

func (p Proposition) String() string {
	if p.Filled {
		return "filled(" + p.Property.String() + ")"
	}
	return "cleared(" + p.Property.String() + ")"
}

// PropositionSet holds two disjoint property sets: cleared (known absent) and
// filled (known present). The zero value is the empty set.
type PropositionSet struct {
	cleared sets.Set[Property]
	filled  sets.Set[Property]
	key     string
}

// NewPropositionSet returns the proposition set over cleared and filled
// properties. It fails when a property appears in both.
func NewPropositionSet(cleared, filled []Property) (PropositionSet, error) {
	c := sets.New(cleared...)
	f := sets.New(filled...)
	for _, p := range c.Items() {
		if f.Contains(p) {
			return PropositionSet{}, errors.NewInvariantError(
				"expecting no proposition to also appear negated", errors.ErrOverlappingPropositions).
				WithSubject(p.String())
		}
	}
	return newPropositionSet(c, f), nil
}

func newPropositionSet(cleared, filled sets.Set[Property]) PropositionSet {
	return PropositionSet{
		cleared: cleared,
		filled:  filled,
		key:     "-" + sortedKeys(cleared) + "+" + sortedKeys(filled),
	}
}

// EmptyPropositions returns the empty proposition set.
func EmptyPropositions() PropositionSet {
	return newPropositionSet(sets.Set[Property]{}, sets.Set[Property]{})
}

// Cleared returns a proposition set in which every given property is cleared.
func Cleared(ps ...Property) PropositionSet {
	return newPropositionSet(sets.New(ps...), sets.Set[Property]{})
}

// Filled returns a proposition set in which every given property is filled.
func Filled(ps ...Property) PropositionSet {
	return newPropositionSet(sets.Set[Property]{}, sets.New(ps...))
}

// IsEmpty reports whether the set holds no propositions.
func (s PropositionSet) IsEmpty() bool {
	return s.cleared.IsEmpty() && s.filled.IsEmpty()
}

// Len returns the number of propositions.
func (s PropositionSet) Len() int {
	return s.cleared.Len() + s.filled.Len()
}

// IsCleared reports whether p is known absent.
func (s PropositionSet) IsCleared(p Property) bool { return s.cleared.Contains(p) }

// IsFilled reports whether p is known present.
func (s PropositionSet) IsFilled(p Property) bool { return s.filled.Contains(p) }

// Contains reports whether the proposition is part of the set.
func (s PropositionSet) Contains(p Proposition) bool {
	if p.Filled {
		return s.IsFilled(p.Property)
	}
	return s.IsCleared(p.Property)
}

// ClearedProperties returns the cleared properties in insertion order.
func (s PropositionSet) ClearedProperties() []Property { return s.cleared.Items() }

// FilledProperties returns the filled properties in insertion order.
func (s PropositionSet) FilledProperties() []Property { return s.filled.Items() }

// Cleared returns the cleared properties as a set.
func (s PropositionSet) Cleared() sets.Set[Property] { return s.cleared.Clone() }

// Filled returns the filled properties as a set.
func (s PropositionSet) Filled() sets.Set[Property] { return s.filled.Clone() }

// Propositions lists the cleared propositions followed by the filled ones.
func (s PropositionSet) Propositions() []Proposition {
	out := make([]Proposition, 0, s.Len())
	for _, p := range s.cleared.Items() {
		out = append(out, Proposition{Property: p})
	}
	for _, p := range s.filled.Items() {
		out = append(out, Proposition{Property: p, Filled: true})
	}
	return out
}

// Equal reports whether both sets hold the same propositions.
func (s PropositionSet) Equal(o PropositionSet) bool {
	return s.Key() == o.Key()
}

// Key implements sets.Keyed and is independent of insertion order.
func (s PropositionSet) Key() string {
	if s.key == "" {
		return "-+"
	}
	return s.key
}

func (s PropositionSet) String() string {
	parts := make([]string, 0, s.Len())
	for _, p := range s.Propositions() {
		parts = append(parts, p.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// EffectSet describes a state transition: properties to clear and properties
// to fill. Both sets are disjoint.
type EffectSet struct {
	props PropositionSet
}

// NewEffectSet returns the effects clearing toClear and filling toFill.
// It fails when a property appears in both.
func NewEffectSet(toClear, toFill []Property) (EffectSet, error) {
	ps, err := NewPropositionSet(toClear, toFill)
	if err != nil {
		return EffectSet{}, err
	}
	return EffectSet{props: ps}, nil
}

// NoEffects returns an effect set that changes nothing.
func NoEffects() EffectSet {
	return EffectSet{props: EmptyPropositions()}
}

// Clears returns effects that clear every given property.
func Clears(ps ...Property) EffectSet { return EffectSet{props: Cleared(ps...)} }

// Fills returns effects that fill every given property.
func Fills(ps ...Property) EffectSet { return EffectSet{props: Filled(ps...)} }

// ToClear returns the properties cleared by the transition.
func (e EffectSet) ToClear() []Property { return e.props.ClearedProperties() }

// ToFill returns the properties filled by the transition.
func (e EffectSet) ToFill() []Property { return e.props.FilledProperties() }

// IsEmpty reports whether the transition changes nothing.
func (e EffectSet) IsEmpty() bool { return e.props.IsEmpty() }

// Propositions returns the effects as a proposition set.
func (e EffectSet) Propositions() PropositionSet { return e.props }

// PostConditions applies the transition to pre:
// cleared' = toClear ∪ (pre.cleared − toFill) and
// filled' = toFill ∪ (pre.filled − toClear).
func (e EffectSet) PostConditions(pre PropositionSet) PropositionSet {
	cleared := e.props.cleared.Union(pre.cleared.Difference(e.props.filled))
	filled := e.props.filled.Union(pre.filled.Difference(e.props.cleared))
	return newPropositionSet(cleared, filled)
}

func sortedKeys[T sets.Keyed](s sets.Set[T]) string {
	ks := make([]string, 0, s.Len())
	for _, v := range s.Items() {
		ks = append(ks, v.Key())
	}
	sort.Strings(ks)
	return strings.Join(ks, ",")
}
