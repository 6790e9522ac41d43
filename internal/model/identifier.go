package model

import (
	"net/url"
)

// Identifier names an identifiable entity. It is either an absolute URI or an
// anonymous label. Identifiers are comparable with ==.
type Identifier struct {
	value string
	uri   bool
}

// ParseIdentifier returns a URI identifier when s is an absolute URI and a
// label identifier otherwise.
func ParseIdentifier(s string) Identifier {
	if u, err := url.Parse(s); err == nil && u.IsAbs() {
		return Identifier{value: u.String(), uri: true}
	}
	return Identifier{value: s}
}

// Label returns a label identifier, even when s looks like a URI.
func Label(s string) Identifier {
	return Identifier{value: s}
}

// IsURI reports whether the identifier is a URI.
func (i Identifier) IsURI() bool {
	return i.uri
}

// URL returns the parsed URI, or nil for labels.
func (i Identifier) URL() *url.URL {
	if !i.uri {
		return nil
	}
	u, err := url.Parse(i.value)
	if err != nil {
		return nil
	}
	return u
}

// IsZero reports whether the identifier is unset.
func (i Identifier) IsZero() bool {
	return i.value == ""
}

func (i Identifier) String() string {
	return i.value
}

// Key distinguishes a URI from a label with the same text.
func (i Identifier) Key() string {
	if i.uri {
		return "<" + i.value + ">"
	}
	return i.value
}

// Widget is an independently owned component whose actions are planned.
type Widget struct{ Identifier }

// Task is a user task an action can realize.
type Task struct{ Identifier }

// Functionality is a capability an action can realize.
type Functionality struct{ Identifier }

// Type classifies the value of a property.
type Type struct{ Identifier }

// NewWidget returns the widget identified by id.
func NewWidget(id string) Widget { return Widget{ParseIdentifier(id)} }

// NewTask returns the task identified by id.
func NewTask(id string) Task { return Task{ParseIdentifier(id)} }

// NewFunctionality returns the functionality identified by id.
func NewFunctionality(id string) Functionality { return Functionality{ParseIdentifier(id)} }

// NewType returns the type identified by id.
func NewType(id string) Type { return Type{ParseIdentifier(id)} }

// Interaction is an instruction presented to the user while an action runs.
// Actions without interactions are pure maintenance steps.
type Interaction struct {
	Instruction string
}

// Key implements sets.Keyed.
func (i Interaction) Key() string { return i.Instruction }

func (i Interaction) String() string { return i.Instruction }
