package planner

import (
	"context"
	"testing"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/testutil"
)

func TestCursor_YieldsShallowestFirst(t *testing.T) {
	ctx := context.Background()
	cur, err := newPlanner(t, fixture()).NewCursor(problem(t, 1, MaxDepth))
	if err != nil {
		t.Fatalf("NewCursor() error = %v", err)
	}

	var depths []int
	for {
		plan, err := cur.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if plan == nil {
			break
		}
		depths = append(depths, plan.Graph().Depth())
		if cur.Graph().Depth() != plan.Graph().Depth() {
			t.Errorf("graph depth %d while yielding a depth %d plan", cur.Graph().Depth(), plan.Graph().Depth())
		}
	}
	if len(depths) != 2 || depths[0] != 1 || depths[1] != 2 {
		t.Errorf("plan depths = %v, want [1 2]", depths)
	}
	if plan, err := cur.Next(ctx); plan != nil || err != nil {
		t.Errorf("Next() after exhaustion = %v, %v", plan, err)
	}
}

func TestCursor_DepthRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     []int
	}{
		{"first depth only", 1, 1, []int{1}},
		{"second depth only", 2, 2, []int{2}},
		{"beyond satisfied graph", 3, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, err := newPlanner(t, fixture()).NewCursor(problem(t, tt.min, tt.max))
			if err != nil {
				t.Fatalf("NewCursor() error = %v", err)
			}
			var got []int
			for {
				plan, err := cur.Next(context.Background())
				if err != nil {
					t.Fatalf("Next() error = %v", err)
				}
				if plan == nil {
					break
				}
				got = append(got, plan.Graph().Depth())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("plan depths = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("plan depths = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCursor_KeepsError(t *testing.T) {
	cur, err := newPlanner(t, testutil.NewRepository()).NewCursor(problem(t, 1, 3))
	if err != nil {
		t.Fatalf("NewCursor() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		plan, err := cur.Next(context.Background())
		if plan != nil || !errors.Is(err, errors.ErrGoalUnrealizable) {
			t.Errorf("call %d: Next() = %v, %v, want ErrGoalUnrealizable", i, plan, err)
		}
	}
	if !errors.Is(cur.Err(), errors.ErrGoalUnrealizable) {
		t.Errorf("Err() = %v", cur.Err())
	}
}

func TestCursor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cur, err := newPlanner(t, fixture()).NewCursor(problem(t, 1, 2))
	if err != nil {
		t.Fatalf("NewCursor() error = %v", err)
	}
	if _, err := cur.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}
