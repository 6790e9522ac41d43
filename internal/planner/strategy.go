package planner

import (
	"strings"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/extend"
	"github.com/Iron-Ham/cobalt/internal/extract"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/provider"
)

// PrecursorStrategy selects how precursor actions are found.
type PrecursorStrategy int

const (
	// PrecursorsNone uses atomic precursors only.
	PrecursorsNone PrecursorStrategy = iota
	// PrecursorsMinimal composes minimal precursors from partial ones.
	PrecursorsMinimal
	// PrecursorsExtendedAtomic extends atomic precursors with actions
	// filling what they leave open.
	PrecursorsExtendedAtomic
	// PrecursorsExtendedMinimal extends minimal precursors likewise.
	PrecursorsExtendedMinimal
)

var precursorStrategyNames = map[PrecursorStrategy]string{
	PrecursorsNone:            "none",
	PrecursorsMinimal:         "minimal",
	PrecursorsExtendedAtomic:  "extended-atomic",
	PrecursorsExtendedMinimal: "extended-minimal",
}

// String returns the canonical name of s.
func (s PrecursorStrategy) String() string {
	if name, ok := precursorStrategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParsePrecursorStrategy accepts the canonical names case-insensitively,
// with underscores in place of dashes.
func ParsePrecursorStrategy(s string) (PrecursorStrategy, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if name == "" {
		return PrecursorsNone, nil
	}
	for strategy, n := range precursorStrategyNames {
		if n == name {
			return strategy, nil
		}
	}
	return PrecursorsNone, errors.NewValidationError("unsupported precursor composition strategy").
		WithField("precursorActions").
		WithValue(s)
}

// PrecursorStrategyNames lists the accepted names in declaration order.
func PrecursorStrategyNames() []string {
	return []string{
		PrecursorsNone.String(),
		PrecursorsMinimal.String(),
		PrecursorsExtendedAtomic.String(),
		PrecursorsExtendedMinimal.String(),
	}
}

// CompositionStrategy decides where composite actions may stand in for
// atomic ones.
type CompositionStrategy struct {
	Precursors             PrecursorStrategy
	ComposeFunctionalities bool // also applies to tasks
	ComposeProperties      bool
}

// DefaultCompositionStrategy composes nothing.
func DefaultCompositionStrategy() CompositionStrategy {
	return CompositionStrategy{Precursors: PrecursorsNone}
}

// NewPlanner wires a planner for repo following s.
func (s CompositionStrategy) NewPlanner(repo model.Repository) (*Planner, error) {
	precursors, err := s.precursorProvider(repo)
	if err != nil {
		return nil, err
	}
	factory := extend.NewDefaultFactory(s.functionalityProvider(repo), s.taskProvider(repo))
	extender := extend.NewDefaultExtender(precursors, s.propertyProvider(repo), extend.PathWalkingDetector{})
	return New(factory, extender, extract.Extractor{}), nil
}

func (s CompositionStrategy) precursorProvider(repo model.Repository) (provider.PrecursorProvider, error) {
	switch s.Precursors {
	case PrecursorsNone:
		return provider.NewBasicPrecursorProvider(repo), nil
	case PrecursorsMinimal:
		return provider.NewMinimalPrecursorProvider(repo), nil
	case PrecursorsExtendedAtomic:
		return provider.NewExtendedPrecursorProvider(repo, provider.NewBasicPrecursorProvider(repo)), nil
	case PrecursorsExtendedMinimal:
		return provider.NewExtendedPrecursorProvider(repo, provider.NewMinimalPrecursorProvider(repo)), nil
	default:
		return nil, errors.Invalidf("unsupported precursor composition strategy %d", int(s.Precursors))
	}
}

func (s CompositionStrategy) functionalityProvider(repo model.Repository) provider.FunctionalityProvider {
	if s.ComposeFunctionalities {
		return provider.NewComposingFunctionalityProvider(repo)
	}
	return provider.NewBasicFunctionalityProvider(repo)
}

func (s CompositionStrategy) taskProvider(repo model.Repository) provider.TaskProvider {
	if s.ComposeFunctionalities {
		return provider.NewComposingTaskProvider(repo)
	}
	return provider.NewBasicTaskProvider(repo)
}

func (s CompositionStrategy) propertyProvider(repo model.Repository) provider.PropertyProvider {
	if s.ComposeProperties {
		return provider.NewComposingPropertyProvider(repo)
	}
	return provider.NewBasicPropertyProvider(repo)
}
