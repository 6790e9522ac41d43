package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/cobalt/internal/errors"
)

// Version is the only catalogue format version understood.
const Version = "1"

// Document is the YAML form of a widget catalogue.
type Document struct {
	// Version is the file format version (currently "1")
	Version string `yaml:"version"`
	// Types, Functionalities and Tasks are taxonomies; an entry is compatible
	// with every ancestor listed through Parents.
	Types           []TermDoc `yaml:"types,omitempty"`
	Functionalities []TermDoc `yaml:"functionalities,omitempty"`
	Tasks           []TermDoc `yaml:"tasks,omitempty"`
	// Widgets lists the widgets and their actions.
	Widgets []WidgetDoc `yaml:"widgets,omitempty"`
}

// TermDoc is one taxonomy entry.
type TermDoc struct {
	ID      string   `yaml:"id"`
	Label   string   `yaml:"label,omitempty"`
	Parents []string `yaml:"parents,omitempty"`
}

// WidgetDoc describes a widget.
type WidgetDoc struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description,omitempty"`
	Actions     []ActionDoc `yaml:"actions"`
}

// ActionDoc describes an action of a widget.
type ActionDoc struct {
	Name            string          `yaml:"name"`
	Pre             PropositionsDoc `yaml:"pre,omitempty"`
	Effects         EffectsDoc      `yaml:"effects,omitempty"`
	Publishes       []PropertyDoc   `yaml:"publishes,omitempty"`
	Functionalities []string        `yaml:"functionalities,omitempty"`
	Tasks           []string        `yaml:"tasks,omitempty"`
	Interactions    []string        `yaml:"interactions,omitempty"`
}

// PropositionsDoc lists the properties an action needs cleared or filled.
type PropositionsDoc struct {
	Cleared []PropertyDoc `yaml:"cleared,omitempty"`
	Filled  []PropertyDoc `yaml:"filled,omitempty"`
}

// EffectsDoc lists the properties an action clears or fills.
type EffectsDoc struct {
	Clear []PropertyDoc `yaml:"clear,omitempty"`
	Fill  []PropertyDoc `yaml:"fill,omitempty"`
}

// PropertyDoc is a typed property. A property without a name is named after
// its type.
type PropertyDoc struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`
}

// LoadFile reads and validates a catalogue document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewCatalogError("catalogue file not found", errors.ErrCatalogNotFound).WithPath(path)
		}
		return nil, errors.NewCatalogError("reading catalogue file", err).WithPath(path)
	}
	doc, err := Parse(data)
	if err != nil {
		var ce *errors.CatalogError
		if errors.As(err, &ce) {
			return nil, ce.WithPath(path)
		}
		return nil, err
	}
	return doc, nil
}

// Parse decodes and validates a catalogue document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewCatalogError("parsing catalogue", fmt.Errorf("%w: %v", errors.ErrCatalogCorrupted, err))
	}
	if doc.Version == "" {
		doc.Version = Version
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal encodes d as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// WriteFile writes d to path as YAML.
func (d *Document) WriteFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return errors.NewCatalogError("encoding catalogue", err).WithPath(path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewCatalogError("writing catalogue", err).WithPath(path)
	}
	return nil
}

// Validate checks the document's structure. References between widgets and
// taxonomies are checked when a Catalog is built.
func (d *Document) Validate() error {
	if d.Version != Version {
		return errors.NewCatalogError(
			fmt.Sprintf("unsupported catalogue version: %s (supported: %s)", d.Version, Version),
			errors.ErrCatalogCorrupted)
	}

	for _, terms := range [][]TermDoc{d.Types, d.Functionalities, d.Tasks} {
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			if strings.TrimSpace(t.ID) == "" {
				return errors.NewCatalogError("taxonomy entry without id", errors.ErrCatalogCorrupted)
			}
			if seen[t.ID] {
				return errors.NewCatalogError("duplicate taxonomy entry "+t.ID, errors.ErrCatalogCorrupted)
			}
			seen[t.ID] = true
		}
	}

	widgets := make(map[string]bool, len(d.Widgets))
	for _, w := range d.Widgets {
		if strings.TrimSpace(w.ID) == "" {
			return errors.NewCatalogError("widget without id", errors.ErrCatalogCorrupted)
		}
		if widgets[w.ID] {
			return errors.NewCatalogError("duplicate widget", errors.ErrCatalogCorrupted).WithWidget(w.ID)
		}
		widgets[w.ID] = true
		for _, a := range w.Actions {
			if err := a.validate(); err != nil {
				return errors.NewCatalogError(fmt.Sprintf("invalid action %q", a.Name), err).WithWidget(w.ID)
			}
		}
	}
	return nil
}

func (a ActionDoc) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: action without name", errors.ErrCatalogCorrupted)
	}
	all := [][]PropertyDoc{a.Pre.Cleared, a.Pre.Filled, a.Effects.Clear, a.Effects.Fill, a.Publishes}
	for _, ps := range all {
		for _, p := range ps {
			if strings.TrimSpace(p.Type) == "" {
				return fmt.Errorf("%w: property %q without type", errors.ErrCatalogCorrupted, p.Name)
			}
		}
	}
	return nil
}

// Merge appends the entries of o to d. Entries already present in d win.
func (d *Document) Merge(o *Document) {
	d.Types = mergeTerms(d.Types, o.Types)
	d.Functionalities = mergeTerms(d.Functionalities, o.Functionalities)
	d.Tasks = mergeTerms(d.Tasks, o.Tasks)

	seen := make(map[string]bool, len(d.Widgets))
	for _, w := range d.Widgets {
		seen[w.ID] = true
	}
	for _, w := range o.Widgets {
		if !seen[w.ID] {
			d.Widgets = append(d.Widgets, w)
			seen[w.ID] = true
		}
	}
}

func mergeTerms(into, from []TermDoc) []TermDoc {
	seen := make(map[string]bool, len(into))
	for _, t := range into {
		seen[t.ID] = true
	}
	for _, t := range from {
		if !seen[t.ID] {
			into = append(into, t)
			seen[t.ID] = true
		}
	}
	return into
}
