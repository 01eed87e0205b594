package nodes

import (
	"errors"
	"testing"

	"github.com/vexgraph/runtime/graph"
	"github.com/vexgraph/runtime/graph/host/hosttest"
)

func TestCallComponentAction_SuccessRoutesSuccessPin(t *testing.T) {
	adapter := hosttest.NewAdapter()
	adapter.Responses["door.open"] = []map[string]any{{"opened": true}}

	n := NewCallComponentAction()
	n.(*CallComponentAction).SetParam("componentType", "door")
	n.(*CallComponentAction).SetParam("actionId", "open")
	ctx := &graph.ExecContext{
		EntityID: "entity-1",
		Signal:   graph.NewSignal(nil, "r1"),
		Adapter:  adapter,
		Inputs:   map[string]any{},
	}

	result, err := n.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transitions[0].PinID != "success" {
		t.Fatalf("expected 'success', got %q", result.Transitions[0].PinID)
	}
	if len(adapter.Calls) != 1 || adapter.Calls[0].EntityID != "entity-1" {
		t.Fatalf("expected one recorded call against entity-1, got %#v", adapter.Calls)
	}
}

func TestCallComponentAction_EntityInputOverridesParamAndContext(t *testing.T) {
	adapter := hosttest.NewAdapter()

	n := NewCallComponentAction()
	n.(*CallComponentAction).SetParam("targetEntity", "from-param")
	n.(*CallComponentAction).SetParam("componentType", "door")
	n.(*CallComponentAction).SetParam("actionId", "open")
	ctx := &graph.ExecContext{
		EntityID: "from-context",
		Signal:   graph.NewSignal(nil, "r1"),
		Adapter:  adapter,
		Inputs:   map[string]any{"entity": "from-input"},
	}

	if _, err := n.Execute(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adapter.Calls[0].EntityID != "from-input" {
		t.Fatalf("expected entity input to win, got %q", adapter.Calls[0].EntityID)
	}
}

func TestCallComponentAction_AdapterErrorRoutesFailurePin(t *testing.T) {
	adapter := hosttest.NewAdapter()
	adapter.Err = errors.New("boom")

	n := NewCallComponentAction()
	ctx := &graph.ExecContext{Signal: graph.NewSignal(nil, "r1"), Adapter: adapter, Inputs: map[string]any{}}

	result, err := n.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != graph.StatusFailure || result.Transitions[0].PinID != "failure" {
		t.Fatalf("expected failure routing, got status=%v transitions=%#v", result.Status, result.Transitions)
	}
}

func TestCallComponentAction_NoAdapterRoutesFailurePin(t *testing.T) {
	n := NewCallComponentAction()
	ctx := &graph.ExecContext{Signal: graph.NewSignal(nil, "r1"), Inputs: map[string]any{}}

	result, err := n.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transitions[0].PinID != "failure" {
		t.Fatalf("expected failure pin with no adapter configured, got %q", result.Transitions[0].PinID)
	}
}
