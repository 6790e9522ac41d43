package combinatorics_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Iron-Ham/cobalt/internal/combinatorics"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// Composability is monotone: a set holding a conflicting pair is never
// composable. Excluding the supersets of the pair must therefore skip the
// triple without testing it.
func TestOrderedPowerSet_PrunesSupersetsOfConflictingPair(t *testing.T) {
	w := model.NewWidget("urn:widget:map")
	p := model.NewProperty("where", "urn:type:address")
	fill := model.NewAction(w, model.WithName("fill"), model.WithEffects(model.Fills(p)))
	reset := model.NewAction(w, model.WithName("reset"), model.WithEffects(model.Clears(p)))
	look := model.NewAction(w, model.WithName("look"),
		model.WithInteractions(model.Interaction{Instruction: "look at the map"}))

	if model.IsComposable([]*model.Action{fill, reset, look}) {
		t.Fatal("a set holding fill and reset should not be composable")
	}

	ps := combinatorics.NewOrderedPowerSet([]*model.Action{fill, reset, look})
	var tested, composable []string
	for {
		combination, ok := ps.Next()
		if !ok {
			break
		}
		label := join(combination)
		tested = append(tested, label)
		if !model.IsComposable(combination) {
			ps.ExcludeSupersetsOf(combination)
			continue
		}
		composable = append(composable, label)
	}

	wantTested := []string{"fill", "reset", "look", "fill+reset", "fill+look", "reset+look"}
	if !reflect.DeepEqual(tested, wantTested) {
		t.Errorf("tested subsets = %v, want %v", tested, wantTested)
	}
	wantComposable := []string{"fill", "reset", "look", "fill+look", "reset+look"}
	if !reflect.DeepEqual(composable, wantComposable) {
		t.Errorf("composable subsets = %v, want %v", composable, wantComposable)
	}
}

func join(actions []*model.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name()
	}
	return strings.Join(names, "+")
}
