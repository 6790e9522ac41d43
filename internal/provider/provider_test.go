package provider

import (
	"context"
	"reflect"
	"testing"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/testutil"
)

var (
	w     = model.NewWidget("urn:widget:w")
	other = model.NewWidget("urn:widget:other")
	f1    = model.NewFunctionality("urn:f:1")
	f2    = model.NewFunctionality("urn:f:2")
	t1    = model.NewTask("urn:t:1")
	p1    = model.NewProperty("p1", "urn:type:text")
	p2    = model.NewProperty("p2", "urn:type:text")
	p3    = model.NewProperty("p3", "urn:type:text")
)

func names(actions []*model.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Name()
	}
	return out
}

func mustPropositions(t *testing.T, cleared, filled []model.Property) model.PropositionSet {
	t.Helper()
	ps, err := model.NewPropositionSet(cleared, filled)
	if err != nil {
		t.Fatalf("NewPropositionSet() error = %v", err)
	}
	return ps
}

func TestBasicPrecursorProvider(t *testing.T) {
	needs := model.NewAction(w, model.WithName("needs"), model.WithPreConditions(model.Cleared(p1)))
	clears := model.NewAction(w, model.WithName("clears"), model.WithEffects(model.Clears(p1)))
	fills := model.NewAction(w, model.WithName("fills"), model.WithEffects(model.Fills(p1)))
	foreign := model.NewAction(other, model.WithName("foreign"), model.WithEffects(model.Clears(p1)))
	repo := testutil.NewRepository(needs, clears, fills, foreign)

	got, err := NewBasicPrecursorProvider(repo).PrecursorActions(context.Background(), needs)
	if err != nil {
		t.Fatalf("PrecursorActions() error = %v", err)
	}
	if want := []string{"clears"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("PrecursorActions() = %v, want %v", names(got), want)
	}
}

func TestBasicProviders(t *testing.T) {
	a1 := model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f1), model.WithTasks(t1))
	a2 := model.NewAction(w, model.WithName("a2"), model.WithFunctionalities(f1), model.WithPublished(p1))
	repo := testutil.NewRepository(a1, a2)
	ctx := context.Background()

	fps, err := NewBasicFunctionalityProvider(repo).FunctionalityProvisions(ctx, []model.Functionality{f1, f1, f2})
	if err != nil {
		t.Fatalf("FunctionalityProvisions() error = %v", err)
	}
	if len(fps) != 2 || fps[0].ProvidingAction() != a1 || fps[1].ProvidingAction() != a2 {
		t.Errorf("FunctionalityProvisions() = %v, want one provision per offer of f1", fps)
	}

	tps, err := NewBasicTaskProvider(repo).TaskProvisions(ctx, []model.Task{t1})
	if err != nil {
		t.Fatalf("TaskProvisions() error = %v", err)
	}
	if len(tps) != 1 || tps[0].Request() != t1 {
		t.Errorf("TaskProvisions() = %v", tps)
	}

	pps, err := NewBasicPropertyProvider(repo).PropertyProvisions(ctx, []model.Property{p1, p2})
	if err != nil {
		t.Fatalf("PropertyProvisions() error = %v", err)
	}
	if len(pps) != 1 || pps[0].Offer() != p1 || pps[0].ProvidingAction() != a2 {
		t.Errorf("PropertyProvisions() = %v", pps)
	}
}

func TestProviders_PropagateRepositoryErrors(t *testing.T) {
	boom := errors.New("catalog offline")
	repo := testutil.NewRepository()
	repo.Err = boom
	ctx := context.Background()
	action := model.NewAction(w, model.WithPreConditions(model.Cleared(p1)))

	tests := []struct {
		name string
		call func() error
	}{
		{"basic precursor", func() error {
			_, err := NewBasicPrecursorProvider(repo).PrecursorActions(ctx, action)
			return err
		}},
		{"minimal precursor", func() error {
			_, err := NewMinimalPrecursorProvider(repo).PrecursorActions(ctx, action)
			return err
		}},
		{"basic functionality", func() error {
			_, err := NewBasicFunctionalityProvider(repo).FunctionalityProvisions(ctx, []model.Functionality{f1})
			return err
		}},
		{"composing property", func() error {
			_, err := NewComposingPropertyProvider(repo).PropertyProvisions(ctx, []model.Property{p1})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, boom) {
				t.Errorf("error = %v, want %v", err, boom)
			}
		})
	}
}

func TestMinimalPrecursorProvider(t *testing.T) {
	needs := model.NewAction(w, model.WithName("needs"), model.WithPreConditions(model.Cleared(p1, p2)))
	c1 := model.NewAction(w, model.WithName("c1"), model.WithEffects(model.Clears(p1)))
	c2 := model.NewAction(w, model.WithName("c2"), model.WithEffects(model.Clears(p2)))
	c12 := model.NewAction(w, model.WithName("c12"), model.WithEffects(model.Clears(p1, p2)))
	fillsFirst := model.NewAction(w, model.WithName("fillsFirst"),
		model.WithEffects(mustEffects(t, []model.Property{p2}, []model.Property{p1})))
	repo := testutil.NewRepository(c1, c2, c12, fillsFirst)

	got, err := NewMinimalPrecursorProvider(repo).PrecursorActions(context.Background(), needs)
	if err != nil {
		t.Fatalf("PrecursorActions() error = %v", err)
	}

	want := []string{
		"c12",
		"c1+c2",
		"c1+maintain{cleared(p2:urn:type:text)}",
		"c2+maintain{cleared(p1:urn:type:text)}",
	}
	if !reflect.DeepEqual(names(got), want) {
		t.Errorf("PrecursorActions() = %v, want %v", names(got), want)
	}
	for _, a := range got {
		if !a.CanBePrecursorOf(needs) {
			t.Errorf("%s cannot be a precursor", a.Name())
		}
		if a.Represents(fillsFirst) {
			t.Errorf("%s must not use an action filling a property required cleared", a.Name())
		}
	}
}

func mustEffects(t *testing.T, toClear, toFill []model.Property) model.EffectSet {
	t.Helper()
	e, err := model.NewEffectSet(toClear, toFill)
	if err != nil {
		t.Fatalf("NewEffectSet() error = %v", err)
	}
	return e
}

func TestIsPartialPrecursor(t *testing.T) {
	needs := model.NewAction(w, model.WithPreConditions(model.Cleared(p1, p2)))

	tests := []struct {
		name      string
		candidate *model.Action
		want      bool
	}{
		{"clears first", model.NewAction(w, model.WithEffects(model.Clears(p1))), true},
		{"clears second", model.NewAction(w, model.WithEffects(model.Clears(p2))), true},
		{"fills first before clearing second", model.NewAction(w,
			model.WithEffects(mustEffects(t, []model.Property{p2}, []model.Property{p1}))), false},
		{"clears first and fills second", model.NewAction(w,
			model.WithEffects(mustEffects(t, []model.Property{p1}, []model.Property{p2}))), true},
		{"touches nothing", model.NewAction(w), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPartialPrecursor(tt.candidate, needs); got != tt.want {
				t.Errorf("isPartialPrecursor() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The extended provider keeps every composable extension, including
// supersets of accepted ones, while the minimal provider prunes them.
func TestExtendedPrecursorProvider_NoMinimality(t *testing.T) {
	needs := model.NewAction(w, model.WithName("needs"),
		model.WithPreConditions(mustPropositions(t, []model.Property{p1}, []model.Property{p2, p3})))
	c1 := model.NewAction(w, model.WithName("c1"), model.WithEffects(model.Clears(p1)))
	f2 := model.NewAction(w, model.WithName("f2"), model.WithEffects(model.Fills(p2)))
	f3 := model.NewAction(w, model.WithName("f3"), model.WithEffects(model.Fills(p3)))
	conflicting := model.NewAction(w, model.WithName("conflicting"), model.WithEffects(model.Fills(p1, p2)))
	repo := testutil.NewRepository(c1, f2, f3, conflicting)

	extended := NewExtendedPrecursorProvider(repo, NewBasicPrecursorProvider(repo))
	got, err := extended.PrecursorActions(context.Background(), needs)
	if err != nil {
		t.Fatalf("PrecursorActions() error = %v", err)
	}

	// c1 plus eight distinct compositions with f2, f3 and the two
	// maintenance actions; the conflicting action never takes part.
	if len(got) != 9 {
		t.Errorf("PrecursorActions() = %v, want 9 precursors", names(got))
	}
	have := make(map[string]bool)
	for _, a := range got {
		have[a.Name()] = true
		if a.Represents(conflicting) {
			t.Errorf("%s must not include a conflicting action", a.Name())
		}
		if !a.CanBePrecursorOf(needs) {
			t.Errorf("%s cannot be a precursor", a.Name())
		}
	}
	for _, name := range []string{"c1", "c1+f2", "c1+f3", "c1+f2+f3"} {
		if !have[name] {
			t.Errorf("PrecursorActions() = %v, missing %s", names(got), name)
		}
	}

	minimal, err := NewMinimalPrecursorProvider(repo).PrecursorActions(context.Background(), needs)
	if err != nil {
		t.Fatalf("PrecursorActions() error = %v", err)
	}
	if want := []string{"c1"}; !reflect.DeepEqual(names(minimal), want) {
		t.Errorf("minimal PrecursorActions() = %v, want %v", names(minimal), want)
	}
}

func TestComposingFunctionalityProvider(t *testing.T) {
	a1 := model.NewAction(w, model.WithName("a1"), model.WithFunctionalities(f1), model.WithEffects(model.Fills(p1)))
	a2 := model.NewAction(w, model.WithName("a2"), model.WithFunctionalities(f2),
		model.WithInteractions(model.Interaction{Instruction: "pick a place"}))
	a3 := model.NewAction(w, model.WithName("a3"), model.WithFunctionalities(f2), model.WithEffects(model.Clears(p1)))
	repo := testutil.NewRepository(a1, a2, a3)

	got, err := NewComposingFunctionalityProvider(repo).FunctionalityProvisions(context.Background(),
		[]model.Functionality{f1, f2})
	if err != nil {
		t.Fatalf("FunctionalityProvisions() error = %v", err)
	}

	type row struct{ request, action string }
	var rows []row
	for _, fp := range got {
		rows = append(rows, row{fp.Request().String(), fp.ProvidingAction().Name()})
	}
	want := []row{
		{"urn:f:1", "a1"},
		{"urn:f:2", "a2"},
		{"urn:f:2", "a3"},
		{"urn:f:1", "a1+a2"},
		{"urn:f:2", "a1+a2"},
		{"urn:f:2", "a2+a3"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("FunctionalityProvisions() = %v, want %v", rows, want)
	}
}

func TestComposingTaskProvider(t *testing.T) {
	a1 := model.NewAction(w, model.WithName("a1"), model.WithTasks(t1))
	b1 := model.NewAction(other, model.WithName("b1"), model.WithTasks(t1))
	repo := testutil.NewRepository(a1, b1)

	got, err := NewComposingTaskProvider(repo).TaskProvisions(context.Background(), []model.Task{t1})
	if err != nil {
		t.Fatalf("TaskProvisions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("TaskProvisions() = %v, want one provision per widget", got)
	}
	for _, tp := range got {
		if tp.ProvidingAction().IsComposite() {
			t.Errorf("actions of different widgets must not be composed: %v", tp.ProvidingAction())
		}
	}
}

func TestComposingPropertyProvider(t *testing.T) {
	a1 := model.NewAction(w, model.WithName("a1"), model.WithPublished(p1))
	a2 := model.NewAction(w, model.WithName("a2"), model.WithPublished(p2))
	repo := testutil.NewRepository(a1, a2)

	got, err := NewComposingPropertyProvider(repo).PropertyProvisions(context.Background(), []model.Property{p1, p2})
	if err != nil {
		t.Fatalf("PropertyProvisions() error = %v", err)
	}
	var composite int
	for _, pp := range got {
		if pp.ProvidingAction().IsComposite() {
			composite++
			if pp.ProvidingAction().Name() != "a1+a2" {
				t.Errorf("composite = %s, want a1+a2", pp.ProvidingAction().Name())
			}
		}
	}
	if len(got) != 4 || composite != 2 {
		t.Errorf("PropertyProvisions() = %d provisions (%d composite), want 4 (2 composite)", len(got), composite)
	}
}
