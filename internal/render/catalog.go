package render

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/cobalt/internal/catalog"
)

// Catalog lists the widgets of doc and their actions.
func Catalog(doc *catalog.Document, width int) string {
	var lines []string
	lines = append(lines, Title.Render("Widgets")+Badge.Render(fmt.Sprintf("%d", len(doc.Widgets))))
	for _, w := range doc.Widgets {
		head := Secondary.Render(w.ID)
		if w.Description != "" {
			head += "  " + Muted.Render(w.Description)
		}
		lines = append(lines, head)
		for i, a := range w.Actions {
			lines = append(lines, prefix(i, len(w.Actions))+actionSummary(a))
		}
	}
	lines = append(lines, "", Muted.Render(fmt.Sprintf("%d types, %d functionalities, %d tasks",
		len(doc.Types), len(doc.Functionalities), len(doc.Tasks))))
	return strings.Join(truncateLines(lines, width), "\n")
}

func actionSummary(a catalog.ActionDoc) string {
	parts := []string{a.Name}
	if len(a.Functionalities) > 0 {
		parts = append(parts, Blue.Render("realizes ")+strings.Join(a.Functionalities, ", "))
	}
	if len(a.Tasks) > 0 {
		parts = append(parts, Blue.Render("tasks ")+strings.Join(a.Tasks, ", "))
	}
	if len(a.Publishes) > 0 {
		parts = append(parts, Blue.Render("publishes ")+properties(a.Publishes))
	}
	if needs := append(append([]catalog.PropertyDoc(nil), a.Pre.Cleared...), a.Pre.Filled...); len(needs) > 0 {
		parts = append(parts, Warning.Render("needs ")+properties(needs))
	}
	return strings.Join(parts, "  ")
}

func properties(ps []catalog.PropertyDoc) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		if p.Name == "" {
			out[i] = p.Type
		} else {
			out[i] = p.Name + ":" + p.Type
		}
	}
	return strings.Join(out, ", ")
}
