package nodes

import (
	"testing"

	"github.com/vexgraph/runtime/graph"
)

func TestParallel_EmitsAllFourBranchesWithConfiguredAwait(t *testing.T) {
	n := NewParallel()
	n.(*Parallel).SetParam("await", false)
	ctx := &graph.ExecContext{Signal: graph.NewSignal(nil, "r1")}

	result, err := n.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Transitions) != 4 {
		t.Fatalf("expected 4 branch transitions, got %d", len(result.Transitions))
	}
	for _, tr := range result.Transitions {
		if tr.Strategy != graph.Parallel {
			t.Fatalf("expected parallel strategy on %q, got %q", tr.PinID, tr.Strategy)
		}
		if tr.AwaitCompletion == nil || *tr.AwaitCompletion != false {
			t.Fatalf("expected await=false propagated to %q", tr.PinID)
		}
	}
}

func TestParallel_DefaultsToAwaiting(t *testing.T) {
	n := NewParallel()
	ctx := &graph.ExecContext{Signal: graph.NewSignal(nil, "r1")}

	result, _ := n.Execute(ctx)
	for _, tr := range result.Transitions {
		if tr.AwaitCompletion == nil || *tr.AwaitCompletion != true {
			t.Fatalf("expected default await=true on %q", tr.PinID)
		}
	}
}
