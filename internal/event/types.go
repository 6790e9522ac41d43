package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "job.started", "plan.found")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// JobEvent is an event raised by one planning job.
type JobEvent interface {
	Event
	// Job returns the id of the job that raised the event.
	Job() string
}

// Event type names.
const (
	TypeGraphCreated    = "graph.created"
	TypeGraphExtended   = "graph.extended"
	TypePlanFound       = "plan.found"
	TypeJobStarted      = "job.started"
	TypeJobCompleted    = "job.completed"
	TypeJobFailed       = "job.failed"
	TypeCatalogReloaded = "catalog.reloaded"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Job Lifecycle Events
// -----------------------------------------------------------------------------

// JobStartedEvent is emitted when a planning job begins.
type JobStartedEvent struct {
	baseEvent
	JobID           string
	Functionalities []string
	Tasks           []string
	MinDepth        int
	MaxDepth        int
}

func (e JobStartedEvent) Job() string { return e.JobID }

// NewJobStartedEvent creates a JobStartedEvent.
func NewJobStartedEvent(jobID string, functionalities, tasks []string, minDepth, maxDepth int) JobStartedEvent {
	return JobStartedEvent{
		baseEvent:       newBaseEvent(TypeJobStarted),
		JobID:           jobID,
		Functionalities: functionalities,
		Tasks:           tasks,
		MinDepth:        minDepth,
		MaxDepth:        maxDepth,
	}
}

// JobCompletedEvent is emitted when a planning job collected at least one plan.
type JobCompletedEvent struct {
	baseEvent
	JobID    string
	Plans    int
	Depth    int // Depth of the graph when the job finished
	Duration time.Duration
}

func (e JobCompletedEvent) Job() string { return e.JobID }

// NewJobCompletedEvent creates a JobCompletedEvent.
func NewJobCompletedEvent(jobID string, plans, depth int, duration time.Duration) JobCompletedEvent {
	return JobCompletedEvent{
		baseEvent: newBaseEvent(TypeJobCompleted),
		JobID:     jobID,
		Plans:     plans,
		Depth:     depth,
		Duration:  duration,
	}
}

// JobFailedEvent is emitted when a planning job ends without a plan.
type JobFailedEvent struct {
	baseEvent
	JobID string
	Err   error
}

func (e JobFailedEvent) Job() string { return e.JobID }

// NewJobFailedEvent creates a JobFailedEvent.
func NewJobFailedEvent(jobID string, err error) JobFailedEvent {
	return JobFailedEvent{
		baseEvent: newBaseEvent(TypeJobFailed),
		JobID:     jobID,
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Planning Events
// -----------------------------------------------------------------------------

// GraphCreatedEvent is emitted once the initial level of a job's graph exists.
type GraphCreatedEvent struct {
	baseEvent
	JobID     string
	Satisfied bool
}

func (e GraphCreatedEvent) Job() string { return e.JobID }

// NewGraphCreatedEvent creates a GraphCreatedEvent.
func NewGraphCreatedEvent(jobID string, satisfied bool) GraphCreatedEvent {
	return GraphCreatedEvent{
		baseEvent: newBaseEvent(TypeGraphCreated),
		JobID:     jobID,
		Satisfied: satisfied,
	}
}

// GraphExtendedEvent is emitted after each extension level is added.
type GraphExtendedEvent struct {
	baseEvent
	JobID      string
	Depth      int
	Provisions int // Action provisions in the new level
	Satisfied  bool
}

func (e GraphExtendedEvent) Job() string { return e.JobID }

// NewGraphExtendedEvent creates a GraphExtendedEvent.
func NewGraphExtendedEvent(jobID string, depth, provisions int, satisfied bool) GraphExtendedEvent {
	return GraphExtendedEvent{
		baseEvent:  newBaseEvent(TypeGraphExtended),
		JobID:      jobID,
		Depth:      depth,
		Provisions: provisions,
		Satisfied:  satisfied,
	}
}

// PlanFoundEvent is emitted for every plan handed to a job's collector.
type PlanFoundEvent struct {
	baseEvent
	JobID   string
	PlanKey string
	Depth   int
	Index   int // 0-based position in extraction order
}

func (e PlanFoundEvent) Job() string { return e.JobID }

// NewPlanFoundEvent creates a PlanFoundEvent.
func NewPlanFoundEvent(jobID, planKey string, depth, index int) PlanFoundEvent {
	return PlanFoundEvent{
		baseEvent: newBaseEvent(TypePlanFound),
		JobID:     jobID,
		PlanKey:   planKey,
		Depth:     depth,
		Index:     index,
	}
}

var (
	_ JobEvent = JobStartedEvent{}
	_ JobEvent = JobCompletedEvent{}
	_ JobEvent = JobFailedEvent{}
	_ JobEvent = GraphCreatedEvent{}
	_ JobEvent = GraphExtendedEvent{}
	_ JobEvent = PlanFoundEvent{}
)

// -----------------------------------------------------------------------------
// Catalogue Events
// -----------------------------------------------------------------------------

// CatalogReloadedEvent is emitted when a watched catalogue file is reloaded.
// Err is set when the new file could not be loaded and the previous catalogue
// stays active.
type CatalogReloadedEvent struct {
	baseEvent
	Path    string
	Widgets int
	Err     error
}

// NewCatalogReloadedEvent creates a CatalogReloadedEvent.
func NewCatalogReloadedEvent(path string, widgets int, err error) CatalogReloadedEvent {
	return CatalogReloadedEvent{
		baseEvent: newBaseEvent(TypeCatalogReloaded),
		Path:      path,
		Widgets:   widgets,
		Err:       err,
	}
}
