package catalog

import (
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/cobalt/internal/errors"
)

// Filter returns a catalogue holding only the widgets whose identifier
// matches one of patterns. '*' stops at ':' and '/'; '**' does not. Without
// patterns c itself is returned.
func (c *Catalog) Filter(patterns ...string) (*Catalog, error) {
	if len(patterns) == 0 {
		return c, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, ':', '/')
		if err != nil {
			return nil, errors.NewValidationError("invalid widget pattern").
				WithField("widgets").
				WithValue(p).
				WithCause(err)
		}
		globs = append(globs, g)
	}

	doc := *c.doc
	doc.Widgets = nil
	for _, w := range c.doc.Widgets {
		for _, g := range globs {
			if g.Match(w.ID) {
				doc.Widgets = append(doc.Widgets, w)
				break
			}
		}
	}
	return New(&doc)
}
