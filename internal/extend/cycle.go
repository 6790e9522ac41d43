package extend

import (
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// CycleDetector decides whether letting support provide for dependent would
// make some action of g depend on itself.
type CycleDetector interface {
	CreatesCycleVia(support, dependent *model.Action, g *graph.Graph) bool
}

// PathWalkingDetector walks the extension levels from the newest to the
// oldest, collecting every action that transitively depends on dependent. A
// cycle exists when support represents dependent or any of those actions.
type PathWalkingDetector struct{}

// CreatesCycleVia implements CycleDetector.
func (PathWalkingDetector) CreatesCycleVia(support, dependent *model.Action, g *graph.Graph) bool {
	if support.Represents(dependent) {
		return true
	}
	dependents := sets.New(dependent)
	for _, level := range g.ExtensionLevelsReversed() {
		dependents = dependentsIn(level, dependents)
		for _, a := range dependents.Items() {
			if support.Represents(a) {
				return true
			}
		}
	}
	return false
}

// dependentsIn returns the actions requested in level whose provisions
// require any of supports.
func dependentsIn(level *graph.ExtensionLevel, supports sets.Set[*model.Action]) sets.Set[*model.Action] {
	var out sets.Set[*model.Action]
	for _, ap := range level.ActionProvisions() {
		if ap.RequiredActions().Intersects(supports) {
			out.Add(ap.RequestedAction())
		}
	}
	return out
}
