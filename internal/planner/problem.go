package planner

import (
	"math"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/model"
)

const (
	// MinDepth is the smallest plan depth, a plan of the initial level only.
	MinDepth = 1

	// MaxDepth is the largest plan depth a problem may ask for. It stands for
	// an unbounded search.
	MaxDepth = math.MaxInt
)

// Problem is a goal mashup together with the range of plan depths to search.
type Problem struct {
	Mashup   model.Mashup
	MinDepth int
	MaxDepth int
}

// NewProblem returns a problem searching plans of any depth.
func NewProblem(mashup model.Mashup) Problem {
	return Problem{Mashup: mashup, MinDepth: MinDepth, MaxDepth: MaxDepth}
}

// WithDepths returns a copy of p searching depths in [minDepth, maxDepth].
func (p Problem) WithDepths(minDepth, maxDepth int) Problem {
	p.MinDepth, p.MaxDepth = minDepth, maxDepth
	return p
}

// Validate checks the depth range and the goal.
func (p Problem) Validate() error {
	if len(p.Mashup.Functionalities()) == 0 && len(p.Mashup.Tasks()) == 0 {
		return errors.Invalidf("expecting a goal mashup")
	}
	if p.MinDepth < MinDepth {
		return errors.Invalidf("expecting minimum depth >= %d, got %d", MinDepth, p.MinDepth)
	}
	if p.MinDepth > p.MaxDepth {
		return errors.Invalidf("expecting minimum depth <= maximum depth, got %d > %d", p.MinDepth, p.MaxDepth)
	}
	return nil
}
