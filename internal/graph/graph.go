package graph

import (
	"strings"

	"github.com/Iron-Ham/cobalt/internal/errors"
)

// Graph is an immutable planning graph: an initial level followed by zero or
// more extension levels. Extension level 0 is the one adjacent to the initial
// level; the last level is the most recently added one.
type Graph struct {
	initial    *InitialLevel
	extensions []*ExtensionLevel
}

// New returns a graph consisting of the initial level only.
func New(initial *InitialLevel) *Graph {
	return &Graph{initial: initial}
}

// FromLevels builds a graph by extending initial with each level in order.
func FromLevels(initial *InitialLevel, levels ...*ExtensionLevel) (*Graph, error) {
	g := New(initial)
	for _, l := range levels {
		var err error
		if g, err = g.ExtendWith(l); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ExtendWith returns a new graph with level appended. It fails unless every
// action requested by level is required by the current last level.
func (g *Graph) ExtendWith(level *ExtensionLevel) (*Graph, error) {
	if !level.CanExtendOn(g.LastLevel()) {
		return nil, errors.NewInvariantError("expecting a sufficient extension", errors.ErrInvalidLevel).
			WithSubject(level.Key())
	}
	exts := make([]*ExtensionLevel, len(g.extensions), len(g.extensions)+1)
	copy(exts, g.extensions)
	return &Graph{initial: g.initial, extensions: append(exts, level)}, nil
}

// InitialLevel returns the goal level.
func (g *Graph) InitialLevel() *InitialLevel { return g.initial }

// Depth counts every level including the initial one.
func (g *Graph) Depth() int { return 1 + len(g.extensions) }

// ExtensionDepth counts the extension levels.
func (g *Graph) ExtensionDepth() int { return len(g.extensions) }

// IsExtended reports whether the graph has extension levels.
func (g *Graph) IsExtended() bool { return len(g.extensions) > 0 }

// LastLevel returns the most recently added level.
func (g *Graph) LastLevel() Level {
	if len(g.extensions) == 0 {
		return g.initial
	}
	return g.extensions[len(g.extensions)-1]
}

// LastExtensionLevel returns the most recently added extension level, or nil.
func (g *Graph) LastExtensionLevel() *ExtensionLevel {
	if len(g.extensions) == 0 {
		return nil
	}
	return g.extensions[len(g.extensions)-1]
}

// ExtensionLevel returns extension level i, or nil when out of range.
func (g *Graph) ExtensionLevel(i int) *ExtensionLevel {
	if i < 0 || i >= len(g.extensions) {
		return nil
	}
	return g.extensions[i]
}

// ExtensionLevels returns the extension levels oldest first.
func (g *Graph) ExtensionLevels() []*ExtensionLevel {
	out := make([]*ExtensionLevel, len(g.extensions))
	copy(out, g.extensions)
	return out
}

// ExtensionLevelsReversed returns the extension levels newest first.
func (g *Graph) ExtensionLevelsReversed() []*ExtensionLevel {
	out := make([]*ExtensionLevel, len(g.extensions))
	for i, l := range g.extensions {
		out[len(out)-1-i] = l
	}
	return out
}

// LevelsReversed returns the newest extension level first and the initial
// level last.
func (g *Graph) LevelsReversed() []Level {
	out := make([]Level, 0, g.Depth())
	for _, l := range g.ExtensionLevelsReversed() {
		out = append(out, l)
	}
	return append(out, g.initial)
}

// IsSatisfied reports whether every action required by the last level is
// enabled, so no further extension is needed.
func (g *Graph) IsSatisfied() bool {
	for _, a := range g.LastLevel().RequiredActions().Items() {
		if !a.IsEnabled() {
			return false
		}
	}
	return true
}

// Key is a structural identity over all levels.
func (g *Graph) Key() string {
	parts := make([]string, 0, g.Depth())
	parts = append(parts, g.initial.Key())
	for _, l := range g.extensions {
		parts = append(parts, l.Key())
	}
	return strings.Join(parts, "/")
}

// Equal reports structural equality.
func (g *Graph) Equal(o *Graph) bool {
	return g == o || (g != nil && o != nil && g.Key() == o.Key())
}
