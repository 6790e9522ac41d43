package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/event"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/logging"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// JobConfig holds the required inputs of a planning job.
type JobConfig struct {
	Repository model.Repository
	Problem    Problem
	Strategy   CompositionStrategy

	// Collector receives the plans. A Sequential collector is used when nil.
	Collector collect.Collector
}

// JobOption configures a Job.
type JobOption func(*jobOptions)

type jobOptions struct {
	id     string
	logger *logging.Logger
	bus    *event.Bus
}

// WithLogger sets the job's logger.
func WithLogger(logger *logging.Logger) JobOption {
	return func(o *jobOptions) {
		o.logger = logger
	}
}

// WithBus publishes job events on bus.
func WithBus(bus *event.Bus) JobOption {
	return func(o *jobOptions) {
		o.bus = bus
	}
}

// WithID overrides the generated job id.
func WithID(id string) JobOption {
	return func(o *jobOptions) {
		o.id = id
	}
}

// Job runs one planning process to completion.
type Job struct {
	id        string
	cfg       JobConfig
	planner   *Planner
	collector collect.Collector
	logger    *logging.Logger
	bus       *event.Bus
}

// Result summarizes a finished job.
type Result struct {
	JobID    string
	Plans    int
	Depth    int
	Duration time.Duration

	// Err is a planning error seen after some plans were collected. The job
	// still succeeded.
	Err error
}

// NewJob validates cfg and wires the planner for its strategy.
func NewJob(cfg JobConfig, opts ...JobOption) (*Job, error) {
	if cfg.Repository == nil {
		return nil, errors.Invalidf("planner: Repository is required")
	}
	if err := cfg.Problem.Validate(); err != nil {
		return nil, err
	}

	o := &jobOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.id == "" {
		o.id = uuid.New().String()
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}
	if o.bus == nil {
		o.bus = event.NewBus(event.WithLogger(o.logger))
	}

	p, err := cfg.Strategy.NewPlanner(cfg.Repository)
	if err != nil {
		return nil, err
	}
	collector := cfg.Collector
	if collector == nil {
		collector = collect.NewSequential()
	}

	return &Job{
		id:        o.id,
		cfg:       cfg,
		planner:   p,
		collector: collector,
		logger:    o.logger.WithJob(o.id).WithComponent("planner"),
		bus:       o.bus,
	}, nil
}

// ID returns the job id.
func (j *Job) ID() string { return j.id }

// Collector returns the collector the job feeds.
func (j *Job) Collector() collect.Collector { return j.collector }

// Run advances the planning process until it is done. It fails only when no
// plan was collected before an error occurred.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	problem := j.cfg.Problem

	j.bus.Publish(event.NewJobStartedEvent(j.id,
		keys(problem.Mashup.Functionalities()), keys(problem.Mashup.Tasks()),
		problem.MinDepth, problem.MaxDepth))
	j.logger.Info("planning started",
		"min_depth", problem.MinDepth,
		"strategy", j.cfg.Strategy.Precursors.String())

	counter := &countingCollector{inner: j.collector, job: j}
	process, err := j.planner.NewProcess(problem, counter)
	if err != nil {
		return nil, j.fail(err)
	}

	process.OnGraph(j.publishGraph)

	var planningErr error
	for !process.Done() {
		if err := ctx.Err(); err != nil {
			planningErr = errors.Wrap(err, "planning interrupted")
			break
		}
		if err := process.Advance(ctx); err != nil {
			planningErr = err
			break
		}
	}

	result := &Result{
		JobID:    j.id,
		Plans:    counter.count,
		Duration: time.Since(start),
	}
	if g := process.Graph(); g != nil {
		result.Depth = g.Depth()
	}

	if planningErr != nil {
		if counter.count == 0 {
			return nil, j.fail(planningErr)
		}
		j.logger.Warn("planning stopped early", "error", planningErr, "plans", counter.count)
		result.Err = planningErr
	}

	j.logger.Info("planning completed",
		"plans", result.Plans,
		"depth", result.Depth,
		"duration_ms", result.Duration.Milliseconds())
	j.bus.Publish(event.NewJobCompletedEvent(j.id, result.Plans, result.Depth, result.Duration))
	return result, nil
}

func (j *Job) fail(err error) error {
	j.logger.Error("planning failed", "error", err, "severity", errors.GetSeverity(err).String())
	j.bus.Publish(event.NewJobFailedEvent(j.id, err))
	return err
}

func (j *Job) publishGraph(g *graph.Graph) {
	if !g.IsExtended() {
		j.bus.Publish(event.NewGraphCreatedEvent(j.id, g.IsSatisfied()))
		j.logger.Debug("graph created", "satisfied", g.IsSatisfied())
		return
	}
	provisions := len(g.LastExtensionLevel().ActionProvisions())
	j.bus.Publish(event.NewGraphExtendedEvent(j.id, g.Depth(), provisions, g.IsSatisfied()))
	j.logger.Debug("graph extended", "depth", g.Depth(), "provisions", provisions)
}

// countingCollector announces the plans it forwards and counts those the
// inner collector kept. Collectors that are not Sized keep every plan they
// accept without error.
type countingCollector struct {
	inner collect.Collector
	job   *Job
	seen  int
	count int
}

func (c *countingCollector) Collect(ctx context.Context, plan *graph.Plan) (collect.Result, error) {
	c.job.bus.Publish(event.NewPlanFoundEvent(c.job.id, plan.Key(), plan.Graph().Depth(), c.seen))
	c.seen++
	sized, ok := c.inner.(collect.Sized)
	before := 0
	if ok {
		before = sized.Len()
	}
	result, err := c.inner.Collect(ctx, plan)
	switch {
	case err != nil:
	case ok:
		c.count += max(sized.Len()-before, 0)
	default:
		c.count++
	}
	return result, err
}

type keyed interface{ Key() string }

func keys[T keyed](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Key()
	}
	return out
}
