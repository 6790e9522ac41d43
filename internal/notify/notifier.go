// Package notify publishes the outcome of planning jobs over MQTT.
//
// A Notifier listens on the event bus for finished jobs and publishes a JSON
// summary to "<topic>/<job id>". A publish that times out is retried once.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/event"
	"github.com/Iron-Ham/cobalt/internal/logging"
)

// DefaultTopic is the topic prefix used when none is configured.
const DefaultTopic = "cobalt/jobs"

// Job statuses in a Summary.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Publisher sends a payload to a topic. *Client implements it.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Summary is the published message.
type Summary struct {
	JobID      string `json:"id"`
	Status     string `json:"status"`
	Plans      int    `json:"plans"`
	Depth      int    `json:"depth,omitempty"`
	DurationMS int64  `json:"durationMs,omitempty"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"ts"`
}

// Notifier forwards job results from an event bus to a Publisher.
type Notifier struct {
	pub    Publisher
	topic  string
	logger *logging.Logger

	mu   sync.Mutex
	bus  *event.Bus
	subs []string
}

// NewNotifier returns a notifier publishing below topic.
func NewNotifier(pub Publisher, topic string, logger *logging.Logger) *Notifier {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Notifier{pub: pub, topic: topic, logger: logger.WithComponent("notify")}
}

// Attach subscribes to job completion and failure events on bus. A notifier
// is attached to at most one bus; attaching again moves it.
func (n *Notifier) Attach(bus *event.Bus) {
	n.Detach()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.bus = bus
	n.subs = []string{
		bus.Subscribe(event.TypeJobCompleted, n.handle),
		bus.Subscribe(event.TypeJobFailed, n.handle),
	}
}

// Detach removes the notifier's subscriptions.
func (n *Notifier) Detach() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.bus == nil {
		return
	}
	for _, id := range n.subs {
		n.bus.Unsubscribe(id)
	}
	n.bus, n.subs = nil, nil
}

// Topic returns the topic a job's summary is published to.
func (n *Notifier) Topic(jobID string) string {
	return n.topic + "/" + jobID
}

func (n *Notifier) handle(e event.Event) {
	var s Summary
	switch ev := e.(type) {
	case event.JobCompletedEvent:
		s = Summary{
			JobID:      ev.JobID,
			Status:     StatusCompleted,
			Plans:      ev.Plans,
			Depth:      ev.Depth,
			DurationMS: ev.Duration.Milliseconds(),
		}
	case event.JobFailedEvent:
		s = Summary{JobID: ev.JobID, Status: StatusFailed}
		if ev.Err != nil {
			s.Error = ev.Err.Error()
		}
	default:
		return
	}
	s.Timestamp = e.Timestamp().UTC().Format(time.RFC3339Nano)

	payload, err := json.Marshal(s)
	if err != nil {
		n.logger.Error("failed to encode job summary", "job_id", s.JobID, "error", err)
		return
	}
	topic := n.Topic(s.JobID)
	err = n.pub.Publish(topic, payload)
	if errors.IsRetryable(err) {
		n.logger.Debug("retrying job summary", "topic", topic, "error", err)
		err = n.pub.Publish(topic, payload)
	}
	if err != nil {
		n.logger.Warn("failed to publish job summary", "topic", topic, "error", err)
		return
	}
	n.logger.Debug("job summary published", "topic", topic, "status", s.Status)
}
