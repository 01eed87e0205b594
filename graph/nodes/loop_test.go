package nodes

import (
	"testing"

	"github.com/vexgraph/runtime/graph"
)

func TestLoop_RunsBodyCountTimesThenCompletes(t *testing.T) {
	n := NewLoop()
	n.(*Loop).SetParam("count", 3)
	board := graph.NewBlackboard()

	var observed []int
	for i := 0; i < 3; i++ {
		ctx := &graph.ExecContext{NodeID: "Loop", Signal: graph.NewSignal(nil, "r1"), Blackboard: board}
		result, err := n.Execute(ctx)
		if err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
		if result.Transitions[0].PinID != "body" {
			t.Fatalf("iteration %d: expected 'body', got %q", i, result.Transitions[0].PinID)
		}
		observed = append(observed, result.Outputs["index"].(int))
	}

	ctx := &graph.ExecContext{NodeID: "Loop", Signal: graph.NewSignal(nil, "r1"), Blackboard: board}
	final, err := n.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.Transitions[0].PinID != "complete" {
		t.Fatalf("expected 'complete' after exhausting count, got %q", final.Transitions[0].PinID)
	}

	for i, v := range observed {
		if v != i {
			t.Fatalf("expected observed[%d]=%d, got %d", i, i, v)
		}
	}
	if _, ok := board.Get("loop:Loop:default"); ok {
		t.Fatal("expected loop counter cleared from blackboard after completion")
	}
}

func TestLoop_ZeroCountCompletesImmediately(t *testing.T) {
	n := NewLoop()
	n.(*Loop).SetParam("count", 0)
	ctx := &graph.ExecContext{NodeID: "Loop", Signal: graph.NewSignal(nil, "r1"), Blackboard: graph.NewBlackboard()}

	result, err := n.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transitions[0].PinID != "complete" {
		t.Fatalf("expected immediate 'complete', got %q", result.Transitions[0].PinID)
	}
}

func TestLoop_DistinctLoopKeysDoNotShareState(t *testing.T) {
	n := NewLoop()
	n.(*Loop).SetParam("count", 1)
	n.(*Loop).SetParam("loopKey", "outer")
	board := graph.NewBlackboard()
	board.Set("loop:Loop:inner", 1)

	ctx := &graph.ExecContext{NodeID: "Loop", Signal: graph.NewSignal(nil, "r1"), Blackboard: board}
	result, err := n.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transitions[0].PinID != "body" {
		t.Fatalf("expected 'outer' loop key to have fresh state, got %q", result.Transitions[0].PinID)
	}
}
