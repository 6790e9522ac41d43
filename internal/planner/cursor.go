package planner

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/extract"
	"github.com/Iron-Ham/cobalt/internal/graph"
)

// Cursor yields the plans of a problem one at a time, shallowest first. The
// graph is only extended once every plan of the current depth was taken.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	planner *Planner
	problem Problem

	graph  *graph.Graph
	target int
	plans  *extract.Iterator
	done   bool
	err    error
}

// NewCursor returns a cursor over the plans of problem.
func (p *Planner) NewCursor(problem Problem) (*Cursor, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return &Cursor{planner: p, problem: problem, target: problem.MinDepth}, nil
}

// Graph returns the current graph, or nil before the first Next.
func (c *Cursor) Graph() *graph.Graph { return c.graph }

// Depth returns the depth of the plans currently being extracted.
func (c *Cursor) Depth() int { return c.target }

// Err returns the error that ended the cursor, if any.
func (c *Cursor) Err() error { return c.err }

// Next returns the next plan. It returns nil without error once all plans
// were yielded. After an error every call returns nil and that error.
func (c *Cursor) Next(ctx context.Context) (*graph.Plan, error) {
	for !c.done {
		if c.plans != nil {
			if plan, ok := c.plans.Next(); ok {
				return plan, nil
			}
			c.plans = nil
			c.target++
		}
		if err := ctx.Err(); err != nil {
			return nil, c.fail(errors.Wrap(err, "planning interrupted"))
		}
		if c.target < MinDepth || c.target > c.problem.MaxDepth {
			c.done = true
			break
		}
		if c.graph != nil && c.graph.Depth() < c.target && c.graph.IsSatisfied() {
			c.done = true
			break
		}
		if err := c.planner.grow(ctx, c.problem.Mashup, c.graph, c.target, func(g *graph.Graph) { c.graph = g }); err != nil {
			return nil, c.fail(err)
		}
		plans, err := c.planner.ExtractPlans(c.graph, c.target)
		if err != nil {
			return nil, c.fail(err)
		}
		c.plans = plans
	}
	return nil, c.err
}

func (c *Cursor) fail(err error) error {
	c.done, c.err = true, err
	return err
}
