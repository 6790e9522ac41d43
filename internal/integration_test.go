// Package internal contains integration tests that verify the packages work
// together: catalogue loading, planning jobs, the event bus, notifications and
// the HTTP API.
package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/cobalt/internal/api"
	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/event"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/notify"
	"github.com/Iron-Ham/cobalt/internal/planner"
	"github.com/Iron-Ham/cobalt/internal/rating"
	"github.com/Iron-Ham/cobalt/internal/testutil"
)

const sampleCatalog = `
types:
  - id: urn:type:address
functionalities:
  - id: urn:f:geocode
widgets:
  - id: urn:widget:map
    actions:
      - name: show
        functionalities: [urn:f:geocode]
        pre:
          filled:
            - {name: where, type: urn:type:address}
        interactions: [Look at the map]
  - id: urn:widget:form
    actions:
      - name: enter
        publishes:
          - {name: where, type: urn:type:address}
        interactions: [Type an address]
`

const extraWidget = `
  - id: urn:widget:globe
    actions:
      - name: spin
        functionalities: [urn:f:geocode]
`

type recordingPublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
}

func (p *recordingPublisher) Publish(topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func loadCatalog(t *testing.T, yaml string) *catalog.Catalog {
	t.Helper()
	doc, err := catalog.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c, err := catalog.New(doc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func geocode(t *testing.T) planner.Problem {
	t.Helper()
	m, err := model.NewMashup([]model.Functionality{model.NewFunctionality("urn:f:geocode")}, nil)
	if err != nil {
		t.Fatalf("NewMashup() error = %v", err)
	}
	return planner.NewProblem(m)
}

// TestJobEventFlow runs a planning job against a catalogue and checks the
// events it publishes and the summary a notifier derives from them.
func TestJobEventFlow(t *testing.T) {
	c := loadCatalog(t, sampleCatalog+extraWidget)
	bus := event.NewBus()

	var types []string
	var mu sync.Mutex
	bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		types = append(types, e.EventType())
		mu.Unlock()
	})

	pub := &recordingPublisher{}
	notifier := notify.NewNotifier(pub, "test/jobs", nil)
	notifier.Attach(bus)
	defer notifier.Detach()

	ratings := collect.NewRating(rating.NewTraversingRater(rating.DefaultStrategy(c)))
	job, err := planner.NewJob(planner.JobConfig{
		Repository: c,
		Problem:    geocode(t),
		Strategy:   planner.DefaultCompositionStrategy(),
		Collector:  ratings,
	}, planner.WithBus(bus))
	if err != nil {
		t.Fatalf("NewJob() error = %v", err)
	}
	res, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Plans != 2 || res.Depth != 2 {
		t.Errorf("Run() = %d plans at depth %d, want 2 at 2", res.Plans, res.Depth)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(types) == 0 || types[0] != event.TypeJobStarted || types[len(types)-1] != event.TypeJobCompleted {
		t.Fatalf("events = %v, want job.started first and job.completed last", types)
	}
	count := map[string]int{}
	for _, typ := range types {
		count[typ]++
	}
	if count[event.TypePlanFound] != 2 || count[event.TypeGraphCreated] != 1 || count[event.TypeGraphExtended] != 1 {
		t.Errorf("events = %v", types)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.topics) != 1 || pub.topics[0] != "test/jobs/"+job.ID() {
		t.Fatalf("published topics = %v", pub.topics)
	}
	var summary notify.Summary
	if err := json.Unmarshal(pub.payloads[0], &summary); err != nil {
		t.Fatalf("invalid summary: %v", err)
	}
	if summary.Status != notify.StatusCompleted || summary.Plans != 2 || summary.Depth != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

// TestReloadedCatalogServesNewWidgets edits a watched catalogue file and checks
// that the API plans against the reloaded catalogue.
func TestReloadedCatalogServesNewWidgets(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"catalog.yaml": sampleCatalog})
	path := filepath.Join(dir, "catalog.yaml")

	c, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	repo := catalog.NewReloadable(c)
	bus := event.NewBus()

	reloaded := make(chan error, 4)
	bus.Subscribe(event.TypeCatalogReloaded, func(e event.Event) {
		if ev, ok := e.(event.CatalogReloadedEvent); ok {
			reloaded <- ev.Err
		}
	})

	watcher, err := catalog.NewWatcher(catalog.WatcherConfig{
		Path:     path,
		Target:   repo,
		Bus:      bus,
		Debounce: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	watcher.Start()
	defer watcher.Stop()

	server, err := api.NewServer(api.Config{Repository: repo, Strategy: planner.DefaultCompositionStrategy(), Bus: bus})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	plans := func() int {
		body := `{"mashup":{"functionalities":["urn:f:geocode"]}}`
		req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(body))
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		var resp api.PlanResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return len(resp.Plans)
	}

	if got := plans(); got != 1 {
		t.Fatalf("plans before reload = %d, want 1", got)
	}

	if err := os.WriteFile(path, []byte(sampleCatalog+extraWidget), 0o644); err != nil {
		t.Fatal(err)
	}
	// A reload may catch the file half written; wait for one that succeeds.
	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case err := <-reloaded:
			done = err == nil
		case <-deadline:
			t.Fatal("catalogue was not reloaded")
		}
	}

	if got := plans(); got != 2 {
		t.Errorf("plans after reload = %d, want 2", got)
	}
}
