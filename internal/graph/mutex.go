package graph

import (
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

// pairs is a directed relation over keys.
type pairs map[[2]string]struct{}

func (p pairs) add(x, y string) { p[[2]string{x, y}] = struct{}{} }

func (p pairs) contains(x, y string) bool {
	_, ok := p[[2]string{x, y}]
	return ok
}

// MutexIndex records, per level of one graph, which required actions cannot
// be executed together.
//
// Levels are visited newest first. Two actions of a level are mutex when one
// publishes a property the other requires cleared, or when they have competing
// needs: some pair of their preconditions was found mutex on the level visited
// before. Two postconditions of a level become mutex for the next visited
// level when every pair of actions achieving them is mutex.
type MutexIndex struct {
	index map[Level]pairs
}

// NewMutexIndex builds the index for g.
func NewMutexIndex(g *Graph) *MutexIndex {
	idx := &MutexIndex{index: make(map[Level]pairs, g.Depth())}
	preMutexes := pairs{}
	for _, level := range g.LevelsReversed() {
		actions := level.RequiredActions().Items()
		actionMutexes := mutexActions(actions, preMutexes)
		preMutexes = propagateMutexes(actions, actionMutexes)
		idx.index[level] = actionMutexes
	}
	return idx
}

// HasAnyMutexes reports whether any level has mutex actions.
func (m *MutexIndex) HasAnyMutexes() bool {
	for _, p := range m.index {
		if len(p) > 0 {
			return true
		}
	}
	return false
}

// HasMutexActions reports whether level has mutex actions. Levels of other
// graphs are unknown and have none.
func (m *MutexIndex) HasMutexActions(level Level) bool {
	return len(m.index[level]) > 0
}

// IsMutex reports whether a and b are mutex on level, in either order.
func (m *MutexIndex) IsMutex(level Level, a, b *model.Action) bool {
	p, ok := m.index[level]
	if !ok {
		return false
	}
	return p.contains(a.Key(), b.Key()) || p.contains(b.Key(), a.Key())
}

func mutexActions(actions []*model.Action, preMutexes pairs) pairs {
	out := pairs{}
	for _, x := range actions {
		for _, y := range actions {
			if x == y {
				continue
			}
			if isMashupMutex(x, y) || haveCompetingNeeds(x, y, preMutexes) {
				out.add(x.Key(), y.Key())
			}
		}
	}
	return out
}

func isMashupMutex(x, y *model.Action) bool {
	pre := y.PreConditions()
	for _, p := range x.PublishedProperties() {
		if pre.IsCleared(p) {
			return true
		}
	}
	return false
}

func haveCompetingNeeds(x, y *model.Action, preMutexes pairs) bool {
	if len(preMutexes) == 0 {
		return false
	}
	for _, p := range x.PreConditions().Propositions() {
		for _, q := range y.PreConditions().Propositions() {
			if preMutexes.contains(p.Key(), q.Key()) {
				return true
			}
		}
	}
	return false
}

func propagateMutexes(actions []*model.Action, actionMutexes pairs) pairs {
	var props sets.Set[model.Proposition]
	achievers := make(map[string][]*model.Action)
	for _, a := range actions {
		for _, p := range a.PostConditions().Propositions() {
			props.Add(p)
			achievers[p.Key()] = append(achievers[p.Key()], a)
		}
	}

	out := pairs{}
	for _, p := range props.Items() {
		for _, q := range props.Items() {
			if p.Key() == q.Key() {
				continue
			}
			if !canAchieveBoth(achievers[p.Key()], achievers[q.Key()], actionMutexes) {
				out.add(p.Key(), q.Key())
			}
		}
	}
	return out
}

func canAchieveBoth(pas, qas []*model.Action, actionMutexes pairs) bool {
	for _, ai := range pas {
		for _, aj := range qas {
			if !actionMutexes.contains(ai.Key(), aj.Key()) {
				return true
			}
		}
	}
	return false
}
