// Package event provides a pub-sub event bus for decoupled communication
// between planning jobs and the surfaces that observe them.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [JobEvent]: An Event raised by one planning job, carrying its id
//   - [Bus]: Synchronous dispatcher shared by concurrent planning jobs
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Job Lifecycle:
//   - [JobStartedEvent]: A planning job begins
//   - [JobCompletedEvent]: A job finished with at least one plan
//   - [JobFailedEvent]: A job finished without a plan
//
// Planning:
//   - [GraphCreatedEvent]: The initial level of a graph was built
//   - [GraphExtendedEvent]: A graph grew by one extension level
//   - [PlanFoundEvent]: A plan was handed to the job's collector
//
// Catalogue:
//   - [CatalogReloadedEvent]: A watched catalogue file was reloaded
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine, which for job events is the
// job's own goroutine, and are protected against panics.
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	bus.Subscribe(event.TypePlanFound, func(e event.Event) {
//	    found := e.(event.PlanFoundEvent)
//	    fmt.Println("plan", found.Index, "at depth", found.Depth)
//	})
//
//	// Follow a single job among many.
//	id := bus.SubscribeJob(job.ID(), func(e event.Event) {
//	    log.Printf("%s: %s", job.ID(), e.EventType())
//	})
//	defer bus.Unsubscribe(id)
package event
