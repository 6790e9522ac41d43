// Package extract enumerates the plans contained in a planning graph.
//
// An Iterator chains backwards from the initial level, picking one provision
// per requested functionality, task and action, and only descends into the
// provisions of actions the level below actually requires. Plans are produced
// lazily; a consumer that has seen enough simply stops calling Next.
package extract

import (
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// ReachabilityIndex records, per level of one graph, the required actions that
// the levels from it to the newest one can enable.
type ReachabilityIndex struct {
	index map[graph.Level]sets.Set[*model.Action]
}

// NewReachabilityIndex builds the index for g, walking from the newest level
// towards the initial level.
func NewReachabilityIndex(g *graph.Graph) *ReachabilityIndex {
	idx := &ReachabilityIndex{index: make(map[graph.Level]sets.Set[*model.Action], g.Depth())}

	var enabled sets.Set[*model.Action]
	for _, xl := range g.ExtensionLevelsReversed() {
		enabled = withEnabledRequired(xl, enabled)
		idx.index[xl] = enabled
		enabled = enabledRequests(xl, enabled)
	}
	il := g.InitialLevel()
	idx.index[il] = withEnabledRequired(il, enabled)
	return idx
}

// IsReachable reports whether action can be enabled from level.
func (r *ReachabilityIndex) IsReachable(level graph.Level, action *model.Action) bool {
	s, ok := r.index[level]
	return ok && s.Contains(action)
}

func withEnabledRequired(level graph.Level, enabled sets.Set[*model.Action]) sets.Set[*model.Action] {
	out := level.RequiredActions().Filter((*model.Action).IsEnabled)
	return out.Union(enabled)
}

// enabledRequests returns the actions requested by level whose provisions
// only require enabled actions.
func enabledRequests(level *graph.ExtensionLevel, enabled sets.Set[*model.Action]) sets.Set[*model.Action] {
	var out sets.Set[*model.Action]
	for _, ap := range level.ActionProvisions() {
		if ap.RequiredActions().IsSubsetOf(enabled) {
			out.Add(ap.RequestedAction())
		}
	}
	return out
}
