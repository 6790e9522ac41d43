// Package collect gathers the plans a planning process extracts and tells the
// process whether to keep going.
package collect

import (
	"container/heap"
	"context"

	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/rating"
)

// Result tells the planning process how to continue after a plan.
type Result int

const (
	// Continue asks for the next plan.
	Continue Result = iota
	// SkipLevel ends the current depth; planning resumes one level deeper.
	SkipLevel
	// Stop ends planning.
	Stop
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case SkipLevel:
		return "skip-level"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Collector receives extracted plans.
type Collector interface {
	Collect(ctx context.Context, plan *graph.Plan) (Result, error)
}

// Sized is implemented by collectors that can drop plans. Len reports the
// plans they kept.
type Sized interface {
	Len() int
}

// Sequential keeps plans in arrival order.
type Sequential struct {
	plans []*graph.Plan
}

// NewSequential returns an empty sequential collector.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Collect implements Collector. It always continues.
func (s *Sequential) Collect(_ context.Context, plan *graph.Plan) (Result, error) {
	s.plans = append(s.plans, plan)
	return Continue, nil
}

// Len returns the number of collected plans.
func (s *Sequential) Len() int { return len(s.plans) }

// Poll removes and returns the oldest plan.
func (s *Sequential) Poll() (*graph.Plan, bool) {
	if len(s.plans) == 0 {
		return nil, false
	}
	p := s.plans[0]
	s.plans = s.plans[1:]
	return p, true
}

// Plans returns the collected plans in arrival order.
func (s *Sequential) Plans() []*graph.Plan {
	return append([]*graph.Plan(nil), s.plans...)
}

// RatedPlan is a plan with its score.
type RatedPlan struct {
	Plan  *graph.Plan
	Score rating.Score

	seq int
}

// ratedQueue is a min-heap by score, then by arrival.
type ratedQueue []RatedPlan

func (q ratedQueue) Len() int { return len(q) }

func (q ratedQueue) Less(i, j int) bool {
	if q[i].Score == q[j].Score {
		return q[i].seq < q[j].seq
	}
	return q[i].Score.Less(q[j].Score)
}

func (q ratedQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *ratedQueue) Push(x any) { *q = append(*q, x.(RatedPlan)) }

func (q *ratedQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Rating keeps rated plans ordered by ascending score, equal scores in
// arrival order. Plans the rater abstains on are dropped.
type Rating struct {
	rater rating.Rater
	queue ratedQueue
	seq   int
}

// NewRating returns a collector rating plans with rater.
func NewRating(rater rating.Rater) *Rating {
	return &Rating{rater: rater}
}

// Collect implements Collector. It continues unless rating fails.
func (r *Rating) Collect(ctx context.Context, plan *graph.Plan) (Result, error) {
	score, err := r.rater.Rate(ctx, plan)
	if err != nil {
		return Stop, err
	}
	if score.IsAbstain() {
		return Continue, nil
	}
	heap.Push(&r.queue, RatedPlan{Plan: plan, Score: score, seq: r.seq})
	r.seq++
	return Continue, nil
}

// Len returns the number of rated plans.
func (r *Rating) Len() int { return r.queue.Len() }

// Peek returns the best plan without removing it.
func (r *Rating) Peek() (RatedPlan, bool) {
	if r.queue.Len() == 0 {
		return RatedPlan{}, false
	}
	return r.queue[0], true
}

// Poll removes and returns the best plan.
func (r *Rating) Poll() (RatedPlan, bool) {
	if r.queue.Len() == 0 {
		return RatedPlan{}, false
	}
	return heap.Pop(&r.queue).(RatedPlan), true
}

// Plans returns the rated plans best first without removing them.
func (r *Rating) Plans() []RatedPlan {
	cp := append(ratedQueue(nil), r.queue...)
	out := make([]RatedPlan, 0, len(cp))
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(RatedPlan))
	}
	return out
}

// Limit stops planning once its collector holds max plans. When the wrapped
// collector does not report its size, every collected plan counts.
type Limit struct {
	inner Collector
	max   int
	seen  int
}

// NewLimit wraps inner. A limit below one never stops.
func NewLimit(inner Collector, limit int) *Limit {
	return &Limit{inner: inner, max: limit}
}

// Collect implements Collector.
func (l *Limit) Collect(ctx context.Context, plan *graph.Plan) (Result, error) {
	res, err := l.inner.Collect(ctx, plan)
	if err != nil {
		return res, err
	}
	l.seen++
	if l.max > 0 && l.count() >= l.max {
		return Stop, nil
	}
	return res, nil
}

// Len returns the plans the wrapped collector kept.
func (l *Limit) Len() int { return l.count() }

func (l *Limit) count() int {
	if sized, ok := l.inner.(Sized); ok {
		return sized.Len()
	}
	return l.seen
}
