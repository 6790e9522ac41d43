package model

import "context"

// Repository answers catalogue queries for the planner. Implementations may
// block on I/O; any error aborts the planning run that issued the query.
type Repository interface {
	// WidgetActions returns every action of the widget.
	WidgetActions(ctx context.Context, widget Widget) ([]*Action, error)

	// FunctionalityOffers returns the offers compatible with the requested functionality.
	FunctionalityOffers(ctx context.Context, request Functionality) ([]RealizedFunctionality, error)

	// TaskOffers returns the offers compatible with the requested task.
	TaskOffers(ctx context.Context, request Task) ([]RealizedTask, error)

	// PropertyOffers returns the offers compatible with the requested property.
	PropertyOffers(ctx context.Context, request Property) ([]PublishedProperty, error)

	// Distance returns the semantic specificity distance between a request and
	// the offer satisfying it. Zero means identical.
	Distance(ctx context.Context, request, offer Identifier) (int, error)
}
