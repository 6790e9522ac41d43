// Package browse is an interactive terminal browser over the plans of one
// planning problem. Plans are pulled from a planner cursor one at a time, so
// the graph only grows as deep as the user pages.
package browse

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/rating"
	"github.com/Iron-Ham/cobalt/internal/render"
)

// Source yields plans one at a time. A nil plan without error means no plans
// are left. planner.Cursor satisfies it.
type Source interface {
	Next(ctx context.Context) (*graph.Plan, error)
}

// planMsg carries the next rated plan.
type planMsg struct {
	plan collect.RatedPlan
}

// doneMsg reports that the source is exhausted.
type doneMsg struct{}

// errMsg reports a failure to fetch the next plan.
type errMsg struct {
	err error
}

// Model holds the browser state.
type Model struct {
	ctx    context.Context
	source Source
	rater  rating.Rater
	title  string
	keys   keyMap

	plans   []collect.RatedPlan
	index   int
	loading bool
	done    bool
	err     error

	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewModel returns a browser over source. Plans the rater abstains on are
// skipped.
func NewModel(ctx context.Context, source Source, rater rating.Rater, title string) Model {
	return Model{
		ctx:     ctx,
		source:  source,
		rater:   rater,
		title:   title,
		keys:    defaultKeyMap(),
		loading: true,
	}
}

// Plans returns the plans fetched so far.
func (m Model) Plans() []collect.RatedPlan { return m.plans }

// Index returns the position of the plan on screen.
func (m Model) Index() int { return m.index }

// Err returns the error that stopped fetching, if any.
func (m Model) Err() error { return m.err }

// Done reports whether the source is exhausted.
func (m Model) Done() bool { return m.done }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// fetch pulls plans until one is rated. Only one fetch is in flight at a
// time since the source is not safe for concurrent use.
func (m Model) fetch() tea.Cmd {
	ctx, source, rater := m.ctx, m.source, m.rater
	return func() tea.Msg {
		for {
			plan, err := source.Next(ctx)
			if err != nil {
				return errMsg{err: err}
			}
			if plan == nil {
				return doneMsg{}
			}
			score, err := rater.Rate(ctx, plan)
			if err != nil {
				return errMsg{err: err}
			}
			if score.IsAbstain() {
				continue
			}
			return planMsg{plan: collect.RatedPlan{Plan: plan, Score: score}}
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()), 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = msg.Width, h
		}
		m.refresh()
		return m, nil

	case planMsg:
		m.loading = false
		m.plans = append(m.plans, msg.plan)
		if len(m.plans) > 1 {
			m.index = len(m.plans) - 1
		}
		m.refresh()
		return m, nil

	case doneMsg:
		m.loading, m.done = false, true
		m.refresh()
		return m, nil

	case errMsg:
		m.loading, m.done, m.err = false, true, msg.err
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		if m.index < len(m.plans)-1 {
			m.index++
			m.refresh()
			return m, nil
		}
		if m.done || m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.fetch()

	case key.Matches(msg, m.keys.Prev):
		if m.index > 0 {
			m.index--
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh renders the current plan into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content())
	m.viewport.GotoTop()
}

func (m Model) content() string {
	if len(m.plans) == 0 {
		switch {
		case m.err != nil:
			return render.Error.Render("Planning failed: " + m.err.Error())
		case m.done:
			return render.Muted.Render("No plans found.")
		default:
			return render.Muted.Render("Planning…")
		}
	}
	return render.Plan(m.index, m.plans[m.index], m.width)
}

func (m Model) header() string {
	return render.Title.Render(m.title)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return render.Error.Render("error: " + m.err.Error())
	case m.loading:
		return render.Warning.Render("planning…")
	case m.done:
		return render.Muted.Render("all plans found")
	default:
		return render.Secondary.Render("more plans available")
	}
}

func (m Model) footer() string {
	pos := fmt.Sprintf("%d/%d", min(m.index+1, len(m.plans)), len(m.plans))
	return render.Truncate(pos+"  "+m.status()+"  "+render.Muted.Render(m.keys.help()), max(m.width, 1))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return m.header() + "\n" + m.content()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.footer())
}
