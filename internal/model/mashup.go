package model

import (
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// Mashup is the planning goal: functionalities and tasks that must all be
// realized.
type Mashup struct {
	functionalities sets.Set[Functionality]
	tasks           sets.Set[Task]
}

// NewMashup fails when both goal sets are empty.
func NewMashup(functionalities []Functionality, tasks []Task) (Mashup, error) {
	m := Mashup{
		functionalities: sets.New(functionalities...),
		tasks:           sets.New(tasks...),
	}
	if m.functionalities.IsEmpty() && m.tasks.IsEmpty() {
		return Mashup{}, errors.NewValidationError("expecting one or more functionalities or tasks").
			WithField("mashup")
	}
	return m, nil
}

// Functionalities returns the requested functionalities.
func (m Mashup) Functionalities() []Functionality { return m.functionalities.Items() }

// Tasks returns the requested tasks.
func (m Mashup) Tasks() []Task { return m.tasks.Items() }
