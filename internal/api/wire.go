package api

import (
	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// IdentifierJSON is the wire form of widgets, functionalities, tasks and
// types. URI is set only for URI identifiers.
type IdentifierJSON struct {
	ID  string `json:"id"`
	URI string `json:"uri,omitempty"`
}

// PropertyJSON is the wire form of a property.
type PropertyJSON struct {
	Name string         `json:"name"`
	Type IdentifierJSON `json:"type"`
}

// ActionJSON is the wire form of an action.
type ActionJSON struct {
	Name                    string           `json:"name"`
	Widget                  IdentifierJSON   `json:"widget"`
	RealizedFunctionalities []IdentifierJSON `json:"realizedFunctionalities"`
	RealizedTasks           []IdentifierJSON `json:"realizedTasks"`
	PublishedProperties     []PropertyJSON   `json:"publishedProperties"`
	Interactions            []string         `json:"interactions"`
}

// ProvisionJSON is the wire form of a functionality or task provision.
type ProvisionJSON struct {
	Request         IdentifierJSON `json:"request"`
	Offer           IdentifierJSON `json:"offer"`
	ProvidingAction ActionJSON     `json:"providingAction"`
}

// PropertyProvisionJSON is the wire form of a property provision.
type PropertyProvisionJSON struct {
	Request  PropertyJSON `json:"request"`
	Offer    PropertyJSON `json:"offer"`
	Provider ActionJSON   `json:"provider"`
}

// ActionProvisionJSON is the wire form of an action provision.
type ActionProvisionJSON struct {
	RequestedAction    ActionJSON              `json:"requestedAction"`
	PrecursorAction    *ActionJSON             `json:"precursorAction,omitempty"`
	PropertyProvisions []PropertyProvisionJSON `json:"propertyProvisions,omitempty"`
}

// InitialLevelJSON is the wire form of an initial level.
type InitialLevelJSON struct {
	FunctionalityProvisions []ProvisionJSON `json:"functionalityProvisions"`
	TaskProvisions          []ProvisionJSON `json:"taskProvisions"`
}

// ExtensionLevelJSON is the wire form of an extension level.
type ExtensionLevelJSON struct {
	ActionProvisions []ActionProvisionJSON `json:"actionProvisions"`
}

// GraphJSON is the wire form of a plan's graph. Extension levels are listed
// oldest first.
type GraphJSON struct {
	Depth           int                  `json:"depth"`
	InitialLevel    InitialLevelJSON     `json:"initialLevel"`
	ExtensionLevels []ExtensionLevelJSON `json:"extensionLevels"`
}

// PlanJSON is a rated plan on the wire.
type PlanJSON struct {
	Rating int       `json:"rating"`
	Graph  GraphJSON `json:"graph"`
}

// EncodeRatedPlan converts a rated plan. A plan the rater abstained on has
// rating zero.
func EncodeRatedPlan(rp collect.RatedPlan) PlanJSON {
	value, _ := rp.Score.Value()
	return PlanJSON{Rating: value, Graph: EncodeGraph(rp.Plan.Graph())}
}

// EncodeGraph converts g.
func EncodeGraph(g *graph.Graph) GraphJSON {
	il := g.InitialLevel()
	out := GraphJSON{
		Depth: g.Depth(),
		InitialLevel: InitialLevelJSON{
			FunctionalityProvisions: make([]ProvisionJSON, 0),
			TaskProvisions:          make([]ProvisionJSON, 0),
		},
		ExtensionLevels: make([]ExtensionLevelJSON, 0, g.ExtensionDepth()),
	}
	for _, fp := range il.FunctionalityProvisions() {
		out.InitialLevel.FunctionalityProvisions = append(out.InitialLevel.FunctionalityProvisions, ProvisionJSON{
			Request:         encodeIdentifier(fp.Request().Identifier),
			Offer:           encodeIdentifier(fp.Offer().Identifier),
			ProvidingAction: EncodeAction(fp.ProvidingAction()),
		})
	}
	for _, tp := range il.TaskProvisions() {
		out.InitialLevel.TaskProvisions = append(out.InitialLevel.TaskProvisions, ProvisionJSON{
			Request:         encodeIdentifier(tp.Request().Identifier),
			Offer:           encodeIdentifier(tp.Offer().Identifier),
			ProvidingAction: EncodeAction(tp.ProvidingAction()),
		})
	}
	for _, xl := range g.ExtensionLevels() {
		level := ExtensionLevelJSON{}
		for _, ap := range xl.ActionProvisions() {
			level.ActionProvisions = append(level.ActionProvisions, encodeActionProvision(ap))
		}
		out.ExtensionLevels = append(out.ExtensionLevels, level)
	}
	return out
}

func encodeActionProvision(ap graph.ActionProvision) ActionProvisionJSON {
	out := ActionProvisionJSON{RequestedAction: EncodeAction(ap.RequestedAction())}
	if ap.HasPrecursor() {
		pa := EncodeAction(ap.PrecursorAction())
		out.PrecursorAction = &pa
	}
	for _, pp := range ap.PropertyProvisions() {
		out.PropertyProvisions = append(out.PropertyProvisions, PropertyProvisionJSON{
			Request:  encodeProperty(pp.Request()),
			Offer:    encodeProperty(pp.Offer()),
			Provider: EncodeAction(pp.ProvidingAction()),
		})
	}
	return out
}

// EncodeAction converts a.
func EncodeAction(a *model.Action) ActionJSON {
	out := ActionJSON{
		Name:                    a.Name(),
		Widget:                  encodeIdentifier(a.Widget().Identifier),
		RealizedFunctionalities: make([]IdentifierJSON, 0),
		RealizedTasks:           make([]IdentifierJSON, 0),
		PublishedProperties:     make([]PropertyJSON, 0),
		Interactions:            make([]string, 0),
	}
	for _, f := range a.RealizedFunctionalities() {
		out.RealizedFunctionalities = append(out.RealizedFunctionalities, encodeIdentifier(f.Identifier))
	}
	for _, t := range a.RealizedTasks() {
		out.RealizedTasks = append(out.RealizedTasks, encodeIdentifier(t.Identifier))
	}
	for _, p := range a.PublishedProperties() {
		out.PublishedProperties = append(out.PublishedProperties, encodeProperty(p))
	}
	for _, i := range a.Interactions() {
		out.Interactions = append(out.Interactions, i.Instruction)
	}
	return out
}

func encodeProperty(p model.Property) PropertyJSON {
	return PropertyJSON{Name: p.Name, Type: encodeIdentifier(p.Type.Identifier)}
}

func encodeIdentifier(id model.Identifier) IdentifierJSON {
	out := IdentifierJSON{ID: id.String()}
	if id.IsURI() {
		out.URI = id.String()
	}
	return out
}
