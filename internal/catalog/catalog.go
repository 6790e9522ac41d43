// Package catalog provides widget catalogues: YAML documents describing
// widgets, their actions and the taxonomies of functionalities, tasks and
// property types, and the [model.Repository] built from them.
//
// An offer is compatible with a request when the offered term is the
// requested one or one of its descendants. The distance between the two is
// the number of parent hops from offer to request.
package catalog

import (
	"context"
	"math"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// Unrelated is the distance reported for terms without a parent path.
const Unrelated = math.MaxInt32

// Catalog is an immutable repository over one document.
type Catalog struct {
	doc     *Document
	widgets []model.Widget
	actions map[model.Widget][]*model.Action
	parents map[model.Identifier][]model.Identifier

	functionalityOffers []model.RealizedFunctionality
	taskOffers          []model.RealizedTask
	propertyOffers      []model.PublishedProperty
}

var _ model.Repository = (*Catalog)(nil)

// Load reads the document at path and builds its catalogue.
func Load(path string) (*Catalog, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := New(doc)
	if err != nil {
		var ce *errors.CatalogError
		if errors.As(err, &ce) {
			return nil, ce.WithPath(path)
		}
		return nil, err
	}
	return c, nil
}

// New builds the catalogue of doc. It fails when a taxonomy names an unknown
// parent or an action holds contradicting propositions.
func New(doc *Document) (*Catalog, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	c := &Catalog{
		doc:     doc,
		actions: make(map[model.Widget][]*model.Action, len(doc.Widgets)),
		parents: make(map[model.Identifier][]model.Identifier),
	}
	for _, terms := range [][]TermDoc{doc.Types, doc.Functionalities, doc.Tasks} {
		if err := c.addTaxonomy(terms); err != nil {
			return nil, err
		}
	}
	for _, wd := range doc.Widgets {
		if err := c.addWidget(wd); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) addTaxonomy(terms []TermDoc) error {
	known := make(map[string]bool, len(terms))
	for _, t := range terms {
		known[t.ID] = true
	}
	for _, t := range terms {
		id := model.ParseIdentifier(t.ID)
		for _, p := range t.Parents {
			if !known[p] {
				return errors.NewCatalogError("unknown parent "+p+" of "+t.ID, errors.ErrUnknownReference)
			}
			c.parents[id] = append(c.parents[id], model.ParseIdentifier(p))
		}
	}
	return nil
}

func (c *Catalog) addWidget(wd WidgetDoc) error {
	w := model.NewWidget(wd.ID)
	c.widgets = append(c.widgets, w)
	for _, ad := range wd.Actions {
		a, err := buildAction(w, ad)
		if err != nil {
			return errors.NewCatalogError("invalid action "+ad.Name, err).WithWidget(wd.ID)
		}
		c.actions[w] = append(c.actions[w], a)

		for _, f := range a.RealizedFunctionalities() {
			o, err := model.NewRealizedFunctionality(f, a)
			if err != nil {
				return err
			}
			c.functionalityOffers = append(c.functionalityOffers, o)
		}
		for _, t := range a.RealizedTasks() {
			o, err := model.NewRealizedTask(t, a)
			if err != nil {
				return err
			}
			c.taskOffers = append(c.taskOffers, o)
		}
		for _, p := range a.PublishedProperties() {
			o, err := model.NewPublishedProperty(p, a)
			if err != nil {
				return err
			}
			c.propertyOffers = append(c.propertyOffers, o)
		}
	}
	return nil
}

func buildAction(w model.Widget, ad ActionDoc) (*model.Action, error) {
	pre, err := model.NewPropositionSet(properties(ad.Pre.Cleared), properties(ad.Pre.Filled))
	if err != nil {
		return nil, err
	}
	effects, err := model.NewEffectSet(properties(ad.Effects.Clear), properties(ad.Effects.Fill))
	if err != nil {
		return nil, err
	}
	opts := []model.ActionOption{
		model.WithName(ad.Name),
		model.WithPreConditions(pre),
		model.WithEffects(effects),
		model.WithPublished(properties(ad.Publishes)...),
	}
	for _, f := range ad.Functionalities {
		opts = append(opts, model.WithFunctionalities(model.NewFunctionality(f)))
	}
	for _, t := range ad.Tasks {
		opts = append(opts, model.WithTasks(model.NewTask(t)))
	}
	for _, i := range ad.Interactions {
		opts = append(opts, model.WithInteractions(model.Interaction{Instruction: i}))
	}
	return model.NewAction(w, opts...), nil
}

func properties(docs []PropertyDoc) []model.Property {
	out := make([]model.Property, 0, len(docs))
	for _, d := range docs {
		name := d.Name
		if name == "" {
			name = d.Type
		}
		out = append(out, model.NewProperty(name, d.Type))
	}
	return out
}

// Document returns the document the catalogue was built from.
func (c *Catalog) Document() *Document { return c.doc }

// Widgets returns the widgets in document order.
func (c *Catalog) Widgets() []model.Widget {
	return append([]model.Widget(nil), c.widgets...)
}

// Widget looks up a widget by id.
func (c *Catalog) Widget(id string) (model.Widget, error) {
	w := model.NewWidget(id)
	for _, known := range c.widgets {
		if known == w {
			return w, nil
		}
	}
	return model.Widget{}, errors.NewNotFoundError("widget", id)
}

// ActionCount returns the number of actions over all widgets.
func (c *Catalog) ActionCount() int {
	n := 0
	for _, as := range c.actions {
		n += len(as)
	}
	return n
}

// WidgetActions implements model.Repository.
func (c *Catalog) WidgetActions(_ context.Context, w model.Widget) ([]*model.Action, error) {
	return append([]*model.Action(nil), c.actions[w]...), nil
}

// FunctionalityOffers implements model.Repository.
func (c *Catalog) FunctionalityOffers(_ context.Context, request model.Functionality) ([]model.RealizedFunctionality, error) {
	var out []model.RealizedFunctionality
	for _, o := range c.functionalityOffers {
		if c.compatible(request.Identifier, o.Subject().Identifier) {
			out = append(out, o)
		}
	}
	return out, nil
}

// TaskOffers implements model.Repository.
func (c *Catalog) TaskOffers(_ context.Context, request model.Task) ([]model.RealizedTask, error) {
	var out []model.RealizedTask
	for _, o := range c.taskOffers {
		if c.compatible(request.Identifier, o.Subject().Identifier) {
			out = append(out, o)
		}
	}
	return out, nil
}

// PropertyOffers implements model.Repository. Offers are matched by type;
// names are left to the rating.
func (c *Catalog) PropertyOffers(_ context.Context, request model.Property) ([]model.PublishedProperty, error) {
	var out []model.PublishedProperty
	for _, o := range c.propertyOffers {
		if c.compatible(request.Type.Identifier, o.Subject().Type.Identifier) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Distance implements model.Repository.
func (c *Catalog) Distance(_ context.Context, request, offer model.Identifier) (int, error) {
	return c.distance(request, offer), nil
}

func (c *Catalog) compatible(request, offer model.Identifier) bool {
	return c.distance(request, offer) != Unrelated
}

// distance walks breadth first from offer towards its ancestors.
func (c *Catalog) distance(request, offer model.Identifier) int {
	if request == offer {
		return 0
	}
	seen := map[model.Identifier]bool{offer: true}
	frontier := []model.Identifier{offer}
	for hops := 1; len(frontier) > 0; hops++ {
		var next []model.Identifier
		for _, id := range frontier {
			for _, p := range c.parents[id] {
				if p == request {
					return hops
				}
				if !seen[p] {
					seen[p] = true
					next = append(next, p)
				}
			}
		}
		frontier = next
	}
	return Unrelated
}
