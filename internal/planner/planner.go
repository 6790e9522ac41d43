package planner

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/extend"
	"github.com/Iron-Ham/cobalt/internal/extract"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// PlanExtractor yields the plans of a graph with a given depth.
type PlanExtractor interface {
	ExtractPlans(g *graph.Graph, depth int) (*extract.Iterator, error)
}

// Planner combines the three planning steps.
type Planner struct {
	factory   extend.Factory
	extender  extend.Extender
	extractor PlanExtractor
}

// New returns a planner using the given steps.
func New(factory extend.Factory, extender extend.Extender, extractor PlanExtractor) *Planner {
	return &Planner{factory: factory, extender: extender, extractor: extractor}
}

// CreateGraph builds the initial graph for mashup.
func (p *Planner) CreateGraph(ctx context.Context, mashup model.Mashup) (*graph.Graph, error) {
	return p.factory.CreateGraph(ctx, mashup)
}

// ExtendGraph adds one extension level to g.
func (p *Planner) ExtendGraph(ctx context.Context, g *graph.Graph) (*graph.Graph, error) {
	return p.extender.ExtendGraph(ctx, g)
}

// ExtractPlans returns an iterator over the plans of g with exactly depth
// levels.
func (p *Planner) ExtractPlans(g *graph.Graph, depth int) (*extract.Iterator, error) {
	return p.extractor.ExtractPlans(g, depth)
}

// NewProcess starts a planning process for problem feeding collector.
func (p *Planner) NewProcess(problem Problem, collector collect.Collector) (*Process, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return &Process{
		planner:   p,
		problem:   problem,
		collector: collector,
		target:    problem.MinDepth,
	}, nil
}

// NewProcessFrom starts a planning process on an existing graph of any depth.
// The planner's factory is not used.
func (p *Planner) NewProcessFrom(problem Problem, collector collect.Collector, g *graph.Graph) (*Process, error) {
	proc, err := p.NewProcess(problem, collector)
	if err != nil {
		return nil, err
	}
	proc.graph = g
	return proc, nil
}

// grow creates the graph when g is nil, then extends it until it reaches
// target depth or is satisfied. set receives every new graph.
func (p *Planner) grow(ctx context.Context, mashup model.Mashup, g *graph.Graph, target int, set func(*graph.Graph)) error {
	if g == nil {
		created, err := p.CreateGraph(ctx, mashup)
		if err != nil {
			return err
		}
		g = created
		set(g)
	}
	for g.Depth() < target && !g.IsSatisfied() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "planning interrupted")
		}
		extended, err := p.ExtendGraph(ctx, g)
		if err != nil {
			return err
		}
		g = extended
		set(g)
	}
	return nil
}
