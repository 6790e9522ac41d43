package model

import (
	"github.com/Iron-Ham/cobalt/internal/errors"
)

// RealizedFunctionality offers a functionality through the action realizing it.
type RealizedFunctionality struct {
	subject Functionality
	action  *Action
}

// NewRealizedFunctionality fails unless action realizes subject.
func NewRealizedFunctionality(subject Functionality, action *Action) (RealizedFunctionality, error) {
	if !action.RealizesFunctionality(subject) {
		return RealizedFunctionality{}, errors.NewInvariantError(
			"expecting action to realize functionality", errors.ErrInvalidInput).WithSubject(subject.String())
	}
	return RealizedFunctionality{subject: subject, action: action}, nil
}

// Subject returns the offered functionality.
func (o RealizedFunctionality) Subject() Functionality { return o.subject }

// Action returns the realizing action.
func (o RealizedFunctionality) Action() *Action { return o.action }

// Key implements sets.Keyed.
func (o RealizedFunctionality) Key() string { return o.subject.Key() + "@" + o.action.Key() }

// RealizedTask offers a task through the action realizing it.
type RealizedTask struct {
	subject Task
	action  *Action
}

// NewRealizedTask fails unless action realizes subject.
func NewRealizedTask(subject Task, action *Action) (RealizedTask, error) {
	if !action.Realizes(subject) {
		return RealizedTask{}, errors.NewInvariantError(
			"expecting action to realize task", errors.ErrInvalidInput).WithSubject(subject.String())
	}
	return RealizedTask{subject: subject, action: action}, nil
}

// Subject returns the offered task.
func (o RealizedTask) Subject() Task { return o.subject }

// Action returns the realizing action.
func (o RealizedTask) Action() *Action { return o.action }

// Key implements sets.Keyed.
func (o RealizedTask) Key() string { return o.subject.Key() + "@" + o.action.Key() }

// PublishedProperty offers a property through the action publishing it.
type PublishedProperty struct {
	subject Property
	action  *Action
}

// NewPublishedProperty fails unless action publishes subject.
func NewPublishedProperty(subject Property, action *Action) (PublishedProperty, error) {
	if !action.Publishes(subject) {
		return PublishedProperty{}, errors.NewInvariantError(
			"expecting action to publish property", errors.ErrInvalidInput).WithSubject(subject.String())
	}
	return PublishedProperty{subject: subject, action: action}, nil
}

// Subject returns the offered property.
func (o PublishedProperty) Subject() Property { return o.subject }

// Action returns the publishing action.
func (o PublishedProperty) Action() *Action { return o.action }

// Key implements sets.Keyed.
func (o PublishedProperty) Key() string { return o.subject.Key() + "@" + o.action.Key() }
