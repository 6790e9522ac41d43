package extend

import (
	"context"
	"testing"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/provider"
	"github.com/Iron-Ham/cobalt/internal/testutil"
)

var (
	w     = model.NewWidget("urn:widget:w")
	other = model.NewWidget("urn:widget:other")
	f     = model.NewFunctionality("urn:f:search")
	t1    = model.NewTask("urn:t:1")
	p     = model.NewProperty("p", "urn:type:text")
	q     = model.NewProperty("q", "urn:type:text")
)

type precursorFunc func(context.Context, *model.Action) ([]*model.Action, error)

func (fn precursorFunc) PrecursorActions(ctx context.Context, a *model.Action) ([]*model.Action, error) {
	return fn(ctx, a)
}

type propertyFunc func(context.Context, []model.Property) ([]graph.PropertyProvision, error)

func (fn propertyFunc) PropertyProvisions(ctx context.Context, ps []model.Property) ([]graph.PropertyProvision, error) {
	return fn(ctx, ps)
}

func noPrecursors() provider.PrecursorProvider {
	return precursorFunc(func(context.Context, *model.Action) ([]*model.Action, error) { return nil, nil })
}

func properties(pps ...graph.PropertyProvision) provider.PropertyProvider {
	return propertyFunc(func(context.Context, []model.Property) ([]graph.PropertyProvision, error) { return pps, nil })
}

func mustMashup(t *testing.T, fs []model.Functionality, ts []model.Task) model.Mashup {
	t.Helper()
	m, err := model.NewMashup(fs, ts)
	if err != nil {
		t.Fatalf("NewMashup() error = %v", err)
	}
	return m
}

func initialGraph(t *testing.T, actions ...*model.Action) *graph.Graph {
	t.Helper()
	var fps []graph.FunctionalityProvision
	for _, a := range actions {
		fps = append(fps, graph.NewProvision(f, f, a))
	}
	initial, err := graph.NewInitialLevel(fps, nil)
	if err != nil {
		t.Fatalf("NewInitialLevel() error = %v", err)
	}
	return graph.New(initial)
}

func mustExtend(t *testing.T, g *graph.Graph, aps ...graph.ActionProvision) *graph.Graph {
	t.Helper()
	level, err := graph.NewExtensionLevel(aps)
	if err != nil {
		t.Fatalf("NewExtensionLevel() error = %v", err)
	}
	xg, err := g.ExtendWith(level)
	if err != nil {
		t.Fatalf("ExtendWith() error = %v", err)
	}
	return xg
}

func mustActionProvision(t *testing.T, requested, precursor *model.Action, pps ...graph.PropertyProvision) graph.ActionProvision {
	t.Helper()
	ap, err := graph.NewActionProvision(requested, precursor, pps)
	if err != nil {
		t.Fatalf("NewActionProvision() error = %v", err)
	}
	return ap
}

func TestDefaultFactory_RoundTrip(t *testing.T) {
	a1 := model.NewAction(w, model.WithName("a1"), model.WithTasks(t1))
	repo := testutil.NewRepository(a1)
	factory := NewDefaultFactory(provider.NewBasicFunctionalityProvider(repo), provider.NewBasicTaskProvider(repo))

	g, err := factory.CreateGraph(context.Background(), mustMashup(t, nil, []model.Task{t1}))
	if err != nil {
		t.Fatalf("CreateGraph() error = %v", err)
	}
	if g.IsExtended() {
		t.Errorf("IsExtended() = true, want false")
	}
	tps := g.InitialLevel().TaskProvisions()
	if len(tps) != 1 || tps[0].Request() != t1 || tps[0].Offer() != t1 || tps[0].ProvidingAction() != a1 {
		t.Errorf("TaskProvisions() = %v, want (t1, t1, a1)", tps)
	}
	if !g.IsSatisfied() {
		t.Errorf("IsSatisfied() = false, want true")
	}
}

func TestDefaultFactory_Unrealizable(t *testing.T) {
	f2 := model.NewFunctionality("urn:f:map")
	a1 := model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f))
	repo := testutil.NewRepository(a1)

	tests := []struct {
		name   string
		tasks  provider.TaskProvider
		mashup func(t *testing.T) model.Mashup
	}{
		{
			name:  "no offers",
			tasks: provider.NewBasicTaskProvider(repo),
			mashup: func(t *testing.T) model.Mashup {
				return mustMashup(t, []model.Functionality{f2}, nil)
			},
		},
		{
			name:  "some functionalities unrealized",
			tasks: provider.NewBasicTaskProvider(repo),
			mashup: func(t *testing.T) model.Mashup {
				return mustMashup(t, []model.Functionality{f, f2}, nil)
			},
		},
		{
			name:  "tasks without task provider",
			tasks: nil,
			mashup: func(t *testing.T) model.Mashup {
				return mustMashup(t, []model.Functionality{f}, []model.Task{t1})
			},
		},
		{
			name:  "tasks unrealized",
			tasks: provider.NewBasicTaskProvider(repo),
			mashup: func(t *testing.T) model.Mashup {
				return mustMashup(t, []model.Functionality{f}, []model.Task{t1})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewDefaultFactory(provider.NewBasicFunctionalityProvider(repo), tt.tasks)
			g, err := factory.CreateGraph(context.Background(), tt.mashup(t))
			if g != nil {
				t.Errorf("CreateGraph() graph = %v, want nil", g)
			}
			if !errors.Is(err, errors.ErrGoalUnrealizable) || !errors.IsPlanningFailure(err) {
				t.Errorf("CreateGraph() error = %v, want planning error", err)
			}
		})
	}
}

func TestDefaultFactory_RepositoryError(t *testing.T) {
	repo := testutil.NewRepository()
	repo.Err = errors.New("catalog offline")
	factory := NewDefaultFactory(provider.NewBasicFunctionalityProvider(repo), nil)

	_, err := factory.CreateGraph(context.Background(), mustMashup(t, []model.Functionality{f}, nil))
	if !errors.Is(err, repo.Err) {
		t.Errorf("CreateGraph() error = %v, want %v", err, repo.Err)
	}
	if errors.IsPlanningFailure(err) {
		t.Errorf("repository errors must not be planning failures")
	}
}

func TestDefaultExtender_RejectsSatisfiedGraph(t *testing.T) {
	a1 := model.NewAction(w, model.WithFunctionalities(f))
	x := NewDefaultExtender(noPrecursors(), properties(), PathWalkingDetector{})

	_, err := x.ExtendGraph(context.Background(), initialGraph(t, a1))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("ExtendGraph() error = %v, want ErrInvalidInput", err)
	}
	if errors.IsPlanningFailure(err) {
		t.Errorf("extending a satisfied graph must not be a planning failure")
	}
}

func TestDefaultExtender_NoViableExtension(t *testing.T) {
	tests := []struct {
		name string
		pre  model.PropositionSet
	}{
		{"needs precursor", model.Cleared(p)},
		{"needs properties", model.Filled(p)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a1 := model.NewAction(w, model.WithFunctionalities(f), model.WithPreConditions(tt.pre))
			x := NewDefaultExtender(noPrecursors(), properties(), PathWalkingDetector{})

			_, err := x.ExtendGraph(context.Background(), initialGraph(t, a1))
			if !errors.Is(err, errors.ErrNoViableExtension) || !errors.IsPlanningFailure(err) {
				t.Errorf("ExtendGraph() error = %v, want planning error", err)
			}
		})
	}
}

func TestDefaultExtender_IgnoresEnabledActions(t *testing.T) {
	enabled := model.NewAction(w, model.WithName("enabled"), model.WithFunctionalities(f))
	needy := model.NewAction(w, model.WithName("needy"), model.WithFunctionalities(f),
		model.WithPreConditions(model.Cleared(p)))

	var asked []*model.Action
	pp := precursorFunc(func(_ context.Context, a *model.Action) ([]*model.Action, error) {
		asked = append(asked, a)
		return nil, nil
	})
	x := NewDefaultExtender(pp, properties(), PathWalkingDetector{})
	_, _ = x.ExtendGraph(context.Background(), initialGraph(t, enabled, needy))

	if len(asked) != 1 || asked[0] != needy {
		t.Errorf("precursors asked for %v, want only needy", asked)
	}
}

func TestDefaultExtender_WithPrecursor(t *testing.T) {
	a1 := model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f),
		model.WithPreConditions(model.Cleared(p)))
	a2 := model.NewAction(w, model.WithName("a2"), model.WithEffects(model.Clears(p)))
	repo := testutil.NewRepository(a1, a2)
	x := NewDefaultExtender(provider.NewBasicPrecursorProvider(repo), provider.NewBasicPropertyProvider(repo),
		PathWalkingDetector{})

	g := initialGraph(t, a1)
	xg, err := x.ExtendGraph(context.Background(), g)
	if err != nil {
		t.Fatalf("ExtendGraph() error = %v", err)
	}

	want := mustExtend(t, g, mustActionProvision(t, a1, a2))
	if !xg.Equal(want) {
		t.Errorf("ExtendGraph() = %s, want %s", xg.Key(), want.Key())
	}
	if !xg.IsSatisfied() {
		t.Errorf("IsSatisfied() = false, want true")
	}
}

func TestDefaultExtender_WithPropertyProvisions(t *testing.T) {
	a1 := model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f),
		model.WithPreConditions(model.Filled(p)))
	useless := model.NewAction(w, model.WithName("useless"))
	a2 := model.NewAction(other, model.WithName("a2"), model.WithEffects(model.Fills(p)), model.WithPublished(p))
	repo := testutil.NewRepository(a1, useless, a2)
	x := NewDefaultExtender(provider.NewBasicPrecursorProvider(repo), provider.NewBasicPropertyProvider(repo),
		PathWalkingDetector{})

	g := initialGraph(t, a1)
	xg, err := x.ExtendGraph(context.Background(), g)
	if err != nil {
		t.Fatalf("ExtendGraph() error = %v", err)
	}

	want := mustExtend(t, g, mustActionProvision(t, a1, nil, graph.NewProvision(p, p, a2)))
	if !xg.Equal(want) {
		t.Errorf("ExtendGraph() = %s, want %s", xg.Key(), want.Key())
	}
}

func TestDefaultExtender_PrecursorLeavesPropertiesOpen(t *testing.T) {
	pre, err := model.NewPropositionSet([]model.Property{p}, []model.Property{q})
	if err != nil {
		t.Fatalf("NewPropositionSet() error = %v", err)
	}
	a1 := model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f), model.WithPreConditions(pre))
	a2 := model.NewAction(w, model.WithName("a2"), model.WithEffects(model.Clears(p)))
	a3 := model.NewAction(other, model.WithName("a3"), model.WithEffects(model.Fills(q)), model.WithPublished(q))
	pp := graph.NewProvision(q, q, a3)

	x := NewDefaultExtender(
		precursorFunc(func(context.Context, *model.Action) ([]*model.Action, error) { return []*model.Action{a2}, nil }),
		properties(pp),
		PathWalkingDetector{})

	g := initialGraph(t, a1)
	xg, err := x.ExtendGraph(context.Background(), g)
	if err != nil {
		t.Fatalf("ExtendGraph() error = %v", err)
	}
	want := mustExtend(t, g, mustActionProvision(t, a1, a2, pp))
	if !xg.Equal(want) {
		t.Errorf("ExtendGraph() = %s, want %s", xg.Key(), want.Key())
	}
}

func TestDefaultExtender_RejectsRepresentingProvidingActions(t *testing.T) {
	pre := model.Filled(p, q)
	a1 := model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f), model.WithPreConditions(pre))
	x1 := model.NewAction(other, model.WithName("x"), model.WithPublished(q))
	y1 := model.NewAction(other, model.WithName("y"), model.WithPublished(p))
	xy, err := model.Compose([]*model.Action{x1, y1})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	x := NewDefaultExtender(noPrecursors(), properties(
		graph.NewProvision(p, p, xy),
		graph.NewProvision(q, q, x1),
		graph.NewProvision(q, q, xy),
	), PathWalkingDetector{})

	g := initialGraph(t, a1)
	xg, err := x.ExtendGraph(context.Background(), g)
	if err != nil {
		t.Fatalf("ExtendGraph() error = %v", err)
	}
	want := mustExtend(t, g, mustActionProvision(t, a1, nil,
		graph.NewProvision(p, p, xy), graph.NewProvision(q, q, xy)))
	if !xg.Equal(want) {
		t.Errorf("ExtendGraph() = %s, want %s", xg.Key(), want.Key())
	}
}

// cyclicFixture returns a graph where a1 is enabled by precursor a2, and a2
// needs q filled, which a1 itself publishes.
func cyclicFixture(t *testing.T) (g *graph.Graph, a1, a2 *model.Action) {
	t.Helper()
	a1 = model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f),
		model.WithPreConditions(model.Cleared(p)), model.WithPublished(q))
	a2 = model.NewAction(w, model.WithName("a2"), model.WithPreConditions(model.Filled(q)),
		model.WithEffects(model.Clears(p)))
	g = mustExtend(t, initialGraph(t, a1), mustActionProvision(t, a1, a2))
	return g, a1, a2
}

func TestDefaultExtender_RejectsCycles(t *testing.T) {
	g, a1, a2 := cyclicFixture(t)
	b := model.NewAction(w, model.WithName("b"))
	a1b, err := model.Compose([]*model.Action{a1, b})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	a3 := model.NewAction(other, model.WithName("a3"), model.WithPublished(q))

	x := NewDefaultExtender(noPrecursors(), properties(
		graph.NewProvision(q, q, a1),
		graph.NewProvision(q, q, a1b),
		graph.NewProvision(q, q, a3),
	), PathWalkingDetector{})

	xg, err := x.ExtendGraph(context.Background(), g)
	if err != nil {
		t.Fatalf("ExtendGraph() error = %v", err)
	}
	want := mustExtend(t, g, mustActionProvision(t, a2, nil, graph.NewProvision(q, q, a3)))
	if !xg.Equal(want) {
		t.Errorf("ExtendGraph() = %s, want %s", xg.Key(), want.Key())
	}
}

func TestDefaultExtender_OnlyCyclesIsNoViableExtension(t *testing.T) {
	g, a1, _ := cyclicFixture(t)
	x := NewDefaultExtender(noPrecursors(), properties(graph.NewProvision(q, q, a1)), PathWalkingDetector{})

	if _, err := x.ExtendGraph(context.Background(), g); !errors.Is(err, errors.ErrNoViableExtension) {
		t.Errorf("ExtendGraph() error = %v, want ErrNoViableExtension", err)
	}
}

func TestDefaultExtender_ProviderErrors(t *testing.T) {
	boom := errors.New("catalog offline")
	a1 := model.NewAction(w, model.WithFunctionalities(f), model.WithPreConditions(model.Filled(p)))

	tests := []struct {
		name string
		x    *DefaultExtender
	}{
		{"precursors", NewDefaultExtender(
			precursorFunc(func(context.Context, *model.Action) ([]*model.Action, error) { return nil, boom }),
			properties(), PathWalkingDetector{})},
		{"properties", NewDefaultExtender(noPrecursors(),
			propertyFunc(func(context.Context, []model.Property) ([]graph.PropertyProvision, error) { return nil, boom }),
			PathWalkingDetector{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.x.ExtendGraph(context.Background(), initialGraph(t, a1))
			if !errors.Is(err, boom) {
				t.Errorf("ExtendGraph() error = %v, want %v", err, boom)
			}
		})
	}
}

func TestPathWalkingDetector(t *testing.T) {
	g, a1, a2 := cyclicFixture(t)
	b := model.NewAction(w, model.WithName("b"))
	a1b, err := model.Compose([]*model.Action{a1, b})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	unrelated := model.NewAction(other, model.WithName("unrelated"))

	tests := []struct {
		name      string
		support   *model.Action
		dependent *model.Action
		want      bool
	}{
		{"support is dependent", a2, a2, true},
		{"dependent enables support", a1, a2, true},
		{"composite represents dependent chain", a1b, a2, true},
		{"unrelated support", unrelated, a2, false},
		{"support below dependent", a2, a1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (PathWalkingDetector{}).CreatesCycleVia(tt.support, tt.dependent, g); got != tt.want {
				t.Errorf("CreatesCycleVia() = %v, want %v", got, tt.want)
			}
		})
	}
}
