package render

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/sets"
)

const (
	branch = "├─ "
	last   = "└─ "
	pipe   = "│  "
	space  = "   "
)

// Plan renders a rated plan as a framed tree no wider than width. index is
// the zero-based position shown in the heading.
func Plan(index int, rp collect.RatedPlan, width int) string {
	g := rp.Plan.Graph()
	var lines []string

	heading := Title.Render(fmt.Sprintf("Plan %d", index+1))
	if v, ok := rp.Score.Value(); ok {
		heading += Badge.Render(fmt.Sprintf("rating %d", v))
	}
	heading += Badge.Render(fmt.Sprintf("depth %d", g.Depth()))
	lines = append(lines, heading, "")

	lines = append(lines, Primary.Render("Goal"))
	lines = append(lines, initialLevel(g.InitialLevel())...)
	for i, xl := range g.ExtensionLevels() {
		lines = append(lines, Primary.Render(fmt.Sprintf("Level %d", i+1)))
		lines = append(lines, extensionLevel(xl)...)
	}

	lines = append(lines, "", Primary.Render("Steps"))
	lines = append(lines, Steps(g)...)

	inner := width - Box.GetHorizontalFrameSize()
	return Box.Render(strings.Join(truncateLines(lines, inner), "\n"))
}

// Steps lists the plan's actions in execution order: the newest extension
// level first and the goal actions last. An action required on several
// levels is listed once.
func Steps(g *graph.Graph) []string {
	var seen sets.Set[*model.Action]
	var out []string
	for _, level := range g.LevelsReversed() {
		for _, a := range level.RequiredActions().Items() {
			if !seen.Add(a) {
				continue
			}
			line := fmt.Sprintf("%2d. %s", len(out)+1, ActionLabel(a))
			if is := a.Interactions(); len(is) > 0 {
				texts := make([]string, len(is))
				for i, in := range is {
					texts[i] = in.Instruction
				}
				line += "  " + Interaction.Render(strings.Join(texts, "; "))
			}
			out = append(out, line)
		}
	}
	return out
}

func initialLevel(il *graph.InitialLevel) []string {
	type row struct {
		request, offer model.Identifier
		action         *model.Action
	}
	var rows []row
	for _, fp := range il.FunctionalityProvisions() {
		rows = append(rows, row{fp.Request().Identifier, fp.Offer().Identifier, fp.ProvidingAction()})
	}
	for _, tp := range il.TaskProvisions() {
		rows = append(rows, row{tp.Request().Identifier, tp.Offer().Identifier, tp.ProvidingAction()})
	}

	out := make([]string, 0, len(rows))
	for i, r := range rows {
		line := prefix(i, len(rows)) + Blue.Render(Short(r.request)) + " ← " + ActionLabel(r.action)
		if r.offer != r.request {
			line += Muted.Render(" as " + Short(r.offer))
		}
		out = append(out, line)
	}
	return out
}

func extensionLevel(xl *graph.ExtensionLevel) []string {
	aps := xl.ActionProvisions()
	var out []string
	for i, ap := range aps {
		out = append(out, prefix(i, len(aps))+ActionLabel(ap.RequestedAction()))
		indent := pipe
		if i == len(aps)-1 {
			indent = space
		}

		var children []string
		if ap.HasPrecursor() {
			children = append(children, Warning.Render("after ")+ActionLabel(ap.PrecursorAction()))
		}
		for _, pp := range ap.PropertyProvisions() {
			line := Blue.Render(pp.Request().String()) + " ← " + ActionLabel(pp.ProvidingAction())
			if pp.Offer() != pp.Request() {
				line += Muted.Render(" as " + pp.Offer().String())
			}
			children = append(children, line)
		}
		for j, c := range children {
			out = append(out, indent+prefix(j, len(children))+c)
		}
	}
	return out
}

func prefix(i, n int) string {
	if i == n-1 {
		return last
	}
	return branch
}

// ActionLabel names an action by its widget and name.
func ActionLabel(a *model.Action) string {
	return Secondary.Render(Short(a.Widget().Identifier)) + "/" + a.Name()
}

// Short returns the last segment of a URI identifier, or the label itself.
func Short(id model.Identifier) string {
	s := id.String()
	if !id.IsURI() {
		return s
	}
	if i := strings.LastIndexAny(s, ":/#"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}
