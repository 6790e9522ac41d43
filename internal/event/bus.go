package event

import (
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/cobalt/internal/logging"
)

// Handler is a function that handles an event.
type Handler func(Event)

type subscription struct {
	id      string
	handler Handler
}

// Bus delivers planning events synchronously on the publishing goroutine.
//
// Many jobs share one bus (every HTTP request runs its own job), so a
// subscriber picks events by type, by job, or takes all of them.
type Bus struct {
	mu     sync.RWMutex
	byType map[string][]subscription
	byJob  map[string][]subscription
	all    []subscription
	nextID atomic.Uint64
	logger *logging.Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger handler panics are reported to.
func WithLogger(logger *logging.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		byType: make(map[string][]subscription),
		byJob:  make(map[string][]subscription),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for one event type, for every job.
// The returned id unsubscribes it.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := b.newSubscription(handler)
	b.byType[eventType] = append(b.byType[eventType], sub)
	return sub.id
}

// SubscribeJob registers handler for every event of one job: its lifecycle,
// graph and plan events. Catalogue events carry no job and are not delivered.
func (b *Bus) SubscribeJob(jobID string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := b.newSubscription(handler)
	b.byJob[jobID] = append(b.byJob[jobID], sub)
	return sub.id
}

// SubscribeAll registers handler for every event.
func (b *Bus) SubscribeAll(handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := b.newSubscription(handler)
	b.all = append(b.all, sub)
	return sub.id
}

// Unsubscribe removes a subscription. It reports whether id was found.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := without(b.all, id); ok {
		b.all = subs
		return true
	}
	for _, index := range []map[string][]subscription{b.byType, b.byJob} {
		for key, subs := range index {
			rest, ok := without(subs, id)
			if !ok {
				continue
			}
			if len(rest) == 0 {
				delete(index, key)
			} else {
				index[key] = rest
			}
			return true
		}
	}
	return false
}

// Publish delivers e to the subscribers of its type, then to the
// subscribers of its job, then to the subscribers of every event. Within a
// group handlers run in registration order. A panicking handler is logged
// and skipped.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	targets := append([]subscription(nil), b.byType[e.EventType()]...)
	if je, ok := e.(JobEvent); ok {
		targets = append(targets, b.byJob[je.Job()]...)
	}
	targets = append(targets, b.all...)
	b.mu.RUnlock()

	for _, sub := range targets {
		b.deliver(sub.handler, e)
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := len(b.all)
	for _, subs := range b.byType {
		count += len(subs)
	}
	for _, subs := range b.byJob {
		count += len(subs)
	}
	return count
}

func (b *Bus) deliver(handler Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			attrs := []any{"event", e.EventType(), "panic", r, "stack", string(debug.Stack())}
			if je, ok := e.(JobEvent); ok {
				attrs = append(attrs, "job_id", je.Job())
			}
			b.logger.Error("event handler panicked", attrs...)
		}
	}()
	handler(e)
}

// newSubscription must be called with b.mu held.
func (b *Bus) newSubscription(handler Handler) subscription {
	return subscription{
		id:      "sub-" + strconv.FormatUint(b.nextID.Add(1), 36),
		handler: handler,
	}
}

func without(subs []subscription, id string) ([]subscription, bool) {
	for i, sub := range subs {
		if sub.id == id {
			return append(subs[:i:i], subs[i+1:]...), true
		}
	}
	return subs, false
}
