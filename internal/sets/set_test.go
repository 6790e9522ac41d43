package sets

import (
	"reflect"
	"testing"
)

type str string

func (s str) Key() string { return string(s) }

func keys(s Set[str]) []string {
	out := make([]string, 0, s.Len())
	for _, v := range s.Items() {
		out = append(out, string(v))
	}
	return out
}

func TestNew_PreservesFirstOccurrenceOrder(t *testing.T) {
	s := New[str]("b", "a", "b", "c", "a")

	if got, want := keys(s), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
}

func TestZeroValue(t *testing.T) {
	var s Set[str]
	if !s.IsEmpty() {
		t.Error("zero set should be empty")
	}
	if s.Contains("x") {
		t.Error("zero set should contain nothing")
	}
	if !s.Add("x") {
		t.Error("Add() on zero set = false, want true")
	}
	if s.Add("x") {
		t.Error("second Add() = true, want false")
	}
}

func TestSetOperations(t *testing.T) {
	a := New[str]("1", "2", "3")
	b := New[str]("3", "4")

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"union", keys(a.Union(b)), []string{"1", "2", "3", "4"}},
		{"difference", keys(a.Difference(b)), []string{"1", "2"}},
		{"filter", keys(a.Filter(func(v str) bool { return v != "2" })), []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if !a.Intersects(b) {
		t.Error("Intersects() = false, want true")
	}
	if a.Intersects(New[str]("9")) {
		t.Error("Intersects() = true, want false")
	}
}

func TestSubsetAndEqual(t *testing.T) {
	a := New[str]("1", "2")
	b := New[str]("2", "1")
	c := New[str]("1", "2", "3")

	if !a.Equal(b) {
		t.Error("Equal() should ignore order")
	}
	if !a.IsSubsetOf(c) {
		t.Error("IsSubsetOf() = false, want true")
	}
	if c.IsSubsetOf(a) {
		t.Error("IsSubsetOf() = true, want false")
	}
	if a.Equal(c) {
		t.Error("Equal() = true, want false")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := New[str]("a")
	items := s.Items()
	items[0] = "z"
	if !s.Contains("a") || s.Contains("z") {
		t.Error("mutating Items() result must not affect the set")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	s := New[str]("a")
	c := s.Clone()
	c.Add("b")

	if s.Contains("b") {
		t.Error("adding to a clone must not change the original")
	}
	if c.Len() != 2 {
		t.Errorf("clone Len() = %d, want 2", c.Len())
	}
}
