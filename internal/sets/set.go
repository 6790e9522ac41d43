// Package sets provides an insertion-ordered set keyed by a canonical string.
//
// Planning must enumerate combinations in the same order on every run, so
// every set-valued domain object is backed by a Set rather than a Go map.
package sets

// Keyed is implemented by values with a canonical identity string.
// Two values with equal keys are considered equal.
type Keyed interface {
	Key() string
}

// Set is an insertion-ordered collection of distinct Keyed values.
// The zero value is an empty set ready to use.
type Set[T Keyed] struct {
	items []T
	index map[string]int
}

// New returns a set holding items in first-occurrence order.
func New[T Keyed](items ...T) Set[T] {
	var s Set[T]
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v unless an equal value is already present. It reports whether
// the set changed.
func (s *Set[T]) Add(v T) bool {
	k := v.Key()
	if _, ok := s.index[k]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// AddAll inserts every value of vs.
func (s *Set[T]) AddAll(vs ...T) {
	for _, v := range vs {
		s.Add(v)
	}
}

// Contains reports whether an equal value is present.
func (s Set[T]) Contains(v T) bool {
	_, ok := s.index[v.Key()]
	return ok
}

// ContainsKey reports whether a value with key k is present.
func (s Set[T]) ContainsKey(k string) bool {
	_, ok := s.index[k]
	return ok
}

// Len returns the number of values.
func (s Set[T]) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no values.
func (s Set[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns the values in insertion order. The slice is a copy.
func (s Set[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Clone returns an independent copy of s.
func (s Set[T]) Clone() Set[T] {
	return New(s.items...)
}

// Union returns a new set with the values of s followed by the new values of o.
func (s Set[T]) Union(o Set[T]) Set[T] {
	out := New(s.items...)
	out.AddAll(o.items...)
	return out
}

// Difference returns the values of s that are not in o.
func (s Set[T]) Difference(o Set[T]) Set[T] {
	var out Set[T]
	for _, v := range s.items {
		if !o.Contains(v) {
			out.Add(v)
		}
	}
	return out
}

// Intersects reports whether s and o share a value.
func (s Set[T]) Intersects(o Set[T]) bool {
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for _, v := range small.items {
		if large.Contains(v) {
			return true
		}
	}
	return false
}

// IsSubsetOf reports whether every value of s is in o.
func (s Set[T]) IsSubsetOf(o Set[T]) bool {
	if s.Len() > o.Len() {
		return false
	}
	for _, v := range s.items {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

// Equal reports whether s and o hold the same values, ignoring order.
func (s Set[T]) Equal(o Set[T]) bool {
	return s.Len() == o.Len() && s.IsSubsetOf(o)
}

// Filter returns the values for which keep returns true.
func (s Set[T]) Filter(keep func(T) bool) Set[T] {
	var out Set[T]
	for _, v := range s.items {
		if keep(v) {
			out.Add(v)
		}
	}
	return out
}
