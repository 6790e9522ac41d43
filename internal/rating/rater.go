package rating

import (
	"context"

	"github.com/Iron-Ham/cobalt/internal/graph"
)

// Rater scores a plan.
type Rater interface {
	Rate(ctx context.Context, plan *graph.Plan) (Score, error)
}

// ScoreFunc scores one element.
type ScoreFunc func(ctx context.Context, e Element) (Score, error)

// Strategy supplies a score per element kind. A nil callback scores zero.
type Strategy struct {
	Graph                  ScoreFunc
	Level                  ScoreFunc
	FunctionalityProvision ScoreFunc
	TaskProvision          ScoreFunc
	ActionProvision        ScoreFunc
	PropertyProvision      ScoreFunc
	Action                 ScoreFunc
}

func (s Strategy) scorer(k Kind) ScoreFunc {
	switch k {
	case KindGraph:
		return s.Graph
	case KindInitialLevel, KindExtensionLevel:
		return s.Level
	case KindFunctionalityProvision:
		return s.FunctionalityProvision
	case KindTaskProvision:
		return s.TaskProvision
	case KindActionProvision:
		return s.ActionProvision
	case KindPropertyProvision:
		return s.PropertyProvision
	case KindAction:
		return s.Action
	}
	return nil
}

// TraversingRater walks a plan and sums the scores of its strategy. The walk
// stops at the first abstention or error.
type TraversingRater struct {
	strategy Strategy
}

// NewTraversingRater returns a rater using strategy.
func NewTraversingRater(strategy Strategy) *TraversingRater {
	return &TraversingRater{strategy: strategy}
}

// Rate implements Rater.
func (r *TraversingRater) Rate(ctx context.Context, plan *graph.Plan) (Score, error) {
	total := Scored(0)
	var err error
	Walk(plan.Graph(), func(e Element) bool {
		fn := r.strategy.scorer(e.Kind)
		if fn == nil {
			return true
		}
		var s Score
		if s, err = fn(ctx, e); err != nil {
			return false
		}
		total = total.Add(s)
		return !total.IsAbstain()
	})
	if err != nil {
		return Abstain(), err
	}
	return total, nil
}
