package extract

import (
	"github.com/Iron-Ham/cobalt/internal/combinatorics"
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// frame walks the provision combinations of one level. original is the graph
// level the combinations are taken from; level is the current combination,
// valid while ok is true.
type frame[L graph.Level, P any] struct {
	original L
	combos   *combinatorics.ProductIterator[P]
	build    func([]P) (L, error)
	level    L
	ok       bool
}

func (f *frame[L, P]) advance() {
	for {
		combination, ok := f.combos.Next()
		if !ok {
			var zero L
			f.level, f.ok = zero, false
			return
		}
		level, err := f.build(combination)
		if err != nil {
			continue
		}
		f.level, f.ok = level, true
		return
	}
}

// initialProvision is one choice for a requested functionality or task.
type initialProvision struct {
	functionality *graph.FunctionalityProvision
	task          *graph.TaskProvision
}

type initialFrame = frame[*graph.InitialLevel, initialProvision]

type extensionFrame = frame[*graph.ExtensionLevel, graph.ActionProvision]

func newInitialFrame(il *graph.InitialLevel) *initialFrame {
	var groups [][]initialProvision
	for _, fn := range il.RequestedFunctionalities() {
		var group []initialProvision
		for _, fp := range il.FunctionalityProvisionsFor(fn) {
			group = append(group, initialProvision{functionality: &fp})
		}
		groups = append(groups, group)
	}
	for _, t := range il.RequestedTasks() {
		var group []initialProvision
		for _, tp := range il.TaskProvisionsFor(t) {
			group = append(group, initialProvision{task: &tp})
		}
		groups = append(groups, group)
	}
	return &initialFrame{
		original: il,
		combos:   product(groups),
		build: func(choices []initialProvision) (*graph.InitialLevel, error) {
			var fps []graph.FunctionalityProvision
			var tps []graph.TaskProvision
			for _, c := range choices {
				if c.functionality != nil {
					fps = append(fps, *c.functionality)
				} else {
					tps = append(tps, *c.task)
				}
			}
			return graph.NewInitialLevel(fps, tps)
		},
	}
}

// newExtensionFrame combines the provisions of xl for the given actions only.
// Actions xl does not provide are left out.
func newExtensionFrame(xl *graph.ExtensionLevel, actions []*model.Action) *extensionFrame {
	var groups [][]graph.ActionProvision
	for _, a := range actions {
		if aps := xl.ProvisionsFor(a); len(aps) > 0 {
			groups = append(groups, aps)
		}
	}
	return &extensionFrame{
		original: xl,
		combos:   product(groups),
		build:    graph.NewExtensionLevel,
	}
}

func product[T any](groups [][]T) *combinatorics.ProductIterator[T] {
	ps, err := combinatorics.NewProductSet(groups)
	if err != nil {
		return combinatorics.EmptyProduct[T]().Iterator()
	}
	return ps.Iterator()
}

// Iterator lazily yields the plans of a graph whose depth lies within
// [minDepth, maxDepth]. It keeps a stack of frames, one per level, and moves
// through three steps: evolve advances the top frame to its next combination
// (popping exhausted frames), emit yields a plan when the top level is
// enabled and deep enough, and grow pushes a frame for the next extension
// level when the top level can still lead to a plan.
//
// An Iterator is not safe for concurrent use.
type Iterator struct {
	graph    *graph.Graph
	minDepth int
	maxDepth int

	initial      *initialFrame
	frames       []*extensionFrame
	reachability *ReachabilityIndex
	mutexes      *graph.MutexIndex

	next *graph.Plan
	done bool
}

// NewIterator returns an iterator over the plans of g. It fails when minDepth
// is less than 1 or greater than maxDepth.
func NewIterator(g *graph.Graph, minDepth, maxDepth int) (*Iterator, error) {
	if minDepth < 1 {
		return nil, errors.Invalidf("expecting minDepth >= 1, got %d", minDepth)
	}
	if minDepth > maxDepth {
		return nil, errors.Invalidf("expecting minDepth <= maxDepth, got %d > %d", minDepth, maxDepth)
	}
	return &Iterator{
		graph:        g,
		minDepth:     minDepth,
		maxDepth:     maxDepth,
		initial:      newInitialFrame(g.InitialLevel()),
		reachability: NewReachabilityIndex(g),
		mutexes:      graph.NewMutexIndex(g),
	}, nil
}

// Graph returns the graph plans are extracted from.
func (it *Iterator) Graph() *graph.Graph { return it.graph }

// MinDepth returns the minimum depth of yielded plans.
func (it *Iterator) MinDepth() int { return it.minDepth }

// MaxDepth returns the maximum depth of yielded plans.
func (it *Iterator) MaxDepth() int { return it.maxDepth }

// HasNext reports whether Next would return a plan. It may compute, but never
// skips, the next plan.
func (it *Iterator) HasNext() bool {
	if it.next == nil && !it.done {
		it.next = it.compute()
		it.done = it.next == nil
	}
	return it.next != nil
}

// Next returns the next plan. The second result is false once the iterator is
// exhausted.
func (it *Iterator) Next() (*graph.Plan, bool) {
	if !it.HasNext() {
		return nil, false
	}
	p := it.next
	it.next = nil
	return p, true
}

// All drains the iterator.
func (it *Iterator) All() []*graph.Plan {
	var out []*graph.Plan
	for {
		p, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func (it *Iterator) compute() *graph.Plan {
	for {
		it.evolve()
		if !it.initial.ok {
			return nil
		}
		if p := it.emit(); p != nil {
			return p
		}
		it.grow()
	}
}

func (it *Iterator) evolve() {
	for len(it.frames) > 0 {
		top := it.frames[len(it.frames)-1]
		top.advance()
		if top.ok {
			return
		}
		it.frames = it.frames[:len(it.frames)-1]
	}
	it.initial.advance()
}

// emit returns a plan of the levels on the stack, or nil. A combination that
// does not form a valid plan is passed over.
func (it *Iterator) emit() *graph.Plan {
	if !it.isEnabled() || it.depth() < it.minDepth {
		return nil
	}
	levels := make([]*graph.ExtensionLevel, len(it.frames))
	for i, f := range it.frames {
		levels[i] = f.level
	}
	g, err := graph.FromLevels(it.initial.level, levels...)
	if err != nil {
		return nil
	}
	p, err := graph.NewPlan(g)
	if err != nil {
		return nil
	}
	return p
}

func (it *Iterator) grow() {
	if it.depth() >= it.maxDepth ||
		len(it.frames) >= it.graph.ExtensionDepth() ||
		it.isEnabled() ||
		!it.isReachable() ||
		it.isMutex() {
		return
	}
	xl := it.graph.ExtensionLevel(len(it.frames))
	it.frames = append(it.frames, newExtensionFrame(xl, it.current().RequiredActions().Items()))
}

func (it *Iterator) depth() int { return 1 + len(it.frames) }

func (it *Iterator) current() graph.Level {
	if n := len(it.frames); n > 0 {
		return it.frames[n-1].level
	}
	return it.initial.level
}

func (it *Iterator) original() graph.Level {
	if n := len(it.frames); n > 0 {
		return it.frames[n-1].original
	}
	return it.initial.original
}

func (it *Iterator) isEnabled() bool {
	for _, a := range it.current().RequiredActions().Items() {
		if !a.IsEnabled() {
			return false
		}
	}
	return true
}

// isReachable checks the current combination against the graph level it
// was taken from, which is the level the index knows.
func (it *Iterator) isReachable() bool {
	original := it.original()
	for _, a := range it.current().RequiredActions().Items() {
		if !it.reachability.IsReachable(original, a) {
			return false
		}
	}
	return true
}

func (it *Iterator) isMutex() bool {
	original := it.original()
	if !it.mutexes.HasMutexActions(original) {
		return false
	}
	actions := it.current().RequiredActions().Items()
	for _, ai := range actions {
		for _, aj := range actions {
			if it.mutexes.IsMutex(original, ai, aj) {
				return true
			}
		}
	}
	return false
}

// Extractor extracts the plans of a single depth.
type Extractor struct{}

// ExtractPlans returns an iterator over the plans of g with exactly depth
// levels.
func (Extractor) ExtractPlans(g *graph.Graph, depth int) (*Iterator, error) {
	return NewIterator(g, depth, depth)
}
