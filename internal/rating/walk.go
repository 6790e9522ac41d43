package rating

import (
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// Kind tags the element a walk visits.
type Kind int

// Element kinds, in the order Walk first meets them.
const (
	KindGraph Kind = iota
	KindInitialLevel
	KindFunctionalityProvision
	KindTaskProvision
	KindExtensionLevel
	KindActionProvision
	KindPropertyProvision
	KindAction
)

var kindNames = [...]string{
	KindGraph:                  "graph",
	KindInitialLevel:           "initial-level",
	KindFunctionalityProvision: "functionality-provision",
	KindTaskProvision:          "task-provision",
	KindExtensionLevel:         "extension-level",
	KindActionProvision:        "action-provision",
	KindPropertyProvision:      "property-provision",
	KindAction:                 "action",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Element is one visited part of a graph. Kind selects the populated field;
// Level is the enclosing level of every element below the graph itself.
type Element struct {
	Kind  Kind
	Graph *graph.Graph
	Level graph.Level

	FunctionalityProvision graph.FunctionalityProvision
	TaskProvision          graph.TaskProvision
	ActionProvision        graph.ActionProvision
	PropertyProvision      graph.PropertyProvision
	Action                 *model.Action
}

// Walk visits the elements of g in this order, stopping as soon as visit
// returns false:
//
//  1. the graph
//  2. the initial level, its functionality provisions, its task provisions
//     and its required actions
//  3. for every extension level, starting with the one next to the initial
//     level: the level, each action provision followed by its property
//     provisions, then the level's required actions
//
// Walk reports whether every element was visited.
func Walk(g *graph.Graph, visit func(Element) bool) bool {
	if !visit(Element{Kind: KindGraph, Graph: g}) {
		return false
	}

	il := g.InitialLevel()
	if !visit(Element{Kind: KindInitialLevel, Graph: g, Level: il}) {
		return false
	}
	for _, fp := range il.FunctionalityProvisions() {
		if !visit(Element{Kind: KindFunctionalityProvision, Graph: g, Level: il, FunctionalityProvision: fp}) {
			return false
		}
	}
	for _, tp := range il.TaskProvisions() {
		if !visit(Element{Kind: KindTaskProvision, Graph: g, Level: il, TaskProvision: tp}) {
			return false
		}
	}
	if !visitActions(g, il, visit) {
		return false
	}

	for _, xl := range g.ExtensionLevels() {
		if !visit(Element{Kind: KindExtensionLevel, Graph: g, Level: xl}) {
			return false
		}
		for _, ap := range xl.ActionProvisions() {
			if !visit(Element{Kind: KindActionProvision, Graph: g, Level: xl, ActionProvision: ap}) {
				return false
			}
			for _, pp := range ap.PropertyProvisions() {
				if !visit(Element{Kind: KindPropertyProvision, Graph: g, Level: xl, PropertyProvision: pp}) {
					return false
				}
			}
		}
		if !visitActions(g, xl, visit) {
			return false
		}
	}
	return true
}

func visitActions(g *graph.Graph, level graph.Level, visit func(Element) bool) bool {
	for _, a := range level.RequiredActions().Items() {
		if !visit(Element{Kind: KindAction, Graph: g, Level: level, Action: a}) {
			return false
		}
	}
	return true
}
