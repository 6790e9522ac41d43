package planner

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/graph"
)

// Process searches plans one depth at a time. Each call to Advance grows the
// graph to the next target depth, unless it is already satisfied, and
// collects the plans of exactly that depth.
//
// A Process is not safe for concurrent use.
type Process struct {
	planner   *Planner
	problem   Problem
	collector collect.Collector

	graph  *graph.Graph
	target int // may overflow past MaxDepth
	done   bool

	onGraph func(*graph.Graph)
}

// OnGraph registers fn to be called with every graph the process creates or
// extends, before plans are extracted from it.
func (p *Process) OnGraph(fn func(*graph.Graph)) { p.onGraph = fn }

func (p *Process) setGraph(g *graph.Graph) {
	p.graph = g
	if p.onGraph != nil {
		p.onGraph(g)
	}
}

// Problem returns the problem being solved.
func (p *Process) Problem() Problem { return p.problem }

// Collector returns the collector plans are handed to.
func (p *Process) Collector() collect.Collector { return p.collector }

// Graph returns the current graph, or nil before the first Advance.
func (p *Process) Graph() *graph.Graph { return p.graph }

// TargetDepth returns the plan depth the next Advance extracts.
func (p *Process) TargetDepth() int { return p.target }

// Done reports whether there is nothing left to search. This is the case
// after an error or a Stop from the collector, when the target depth exceeds
// the problem's maximum, or when the graph is satisfied and all of its depths
// have been searched.
func (p *Process) Done() bool {
	if !p.done {
		p.done = p.graph != nil && (p.exceeded() || p.searchComplete())
	}
	return p.done
}

// Advance performs one planning step. The process is done after any error.
func (p *Process) Advance(ctx context.Context) error {
	// target only drops below MinDepth by overflowing past MaxDepth.
	if p.target < MinDepth {
		return errors.NewPlanningError("maximal plan depth exceeded", errors.ErrDepthExceeded).
			WithPhase("advance")
	}
	if p.Done() {
		return errors.NewPlanningError("planning process is already done", errors.ErrPlanningDone).
			WithPhase("advance")
	}

	if err := p.evolve(ctx); err != nil {
		p.done = true
		return err
	}
	if err := p.extract(ctx); err != nil {
		p.done = true
		return err
	}

	p.target++
	return nil
}

func (p *Process) evolve(ctx context.Context) error {
	return p.planner.grow(ctx, p.problem.Mashup, p.graph, p.target, p.setGraph)
}

func (p *Process) extract(ctx context.Context) error {
	plans, err := p.planner.ExtractPlans(p.graph, p.target)
	if err != nil {
		return err
	}
	for plans.HasNext() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "planning interrupted")
		}
		plan, _ := plans.Next()
		result, err := p.collector.Collect(ctx, plan)
		if err != nil {
			return errors.Wrap(err, "failed to collect plan")
		}
		switch result {
		case collect.SkipLevel:
			return nil
		case collect.Stop:
			p.done = true
			return nil
		}
	}
	return nil
}

func (p *Process) exceeded() bool {
	return p.target > p.problem.MaxDepth
}

func (p *Process) searchComplete() bool {
	return p.graph.Depth() < p.target && p.graph.IsSatisfied()
}
