package graph

import "testing"

// literalNode is a minimal test fixture: it writes a configured value to
// pin "v" and routes to "next" on every invocation.
type literalNode struct {
	BaseNode
}

func newLiteralNode() Node {
	n := &literalNode{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *literalNode) onExecute(ctx *ExecContext) (Result, error) {
	value := n.ParamString("value", "")
	return Result{
		Status:      StatusSuccess,
		Outputs:     map[string]any{"v": value},
		Transitions: []Transition{{PinID: "next"}},
	}, nil
}

var literalDefinition = NodeDefinition{
	Type: "literal",
	Pins: []Pin{
		{ID: "in", Dir: In, Signal: FlowSignal},
		{ID: "v", Dir: Out, Signal: DataSignal},
		{ID: "next", Dir: Out, Signal: FlowSignal, Strategy: Sequential},
	},
	Parameters: []ParameterDescriptor{{ID: "value"}},
}

func newTestRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(literalDefinition, newLiteralNode)
	return reg
}

func TestHydrate_UnknownNodeType(t *testing.T) {
	asset := &GraphAsset{
		ID:    "g1",
		Nodes: []SerializedNode{{ID: "A", Type: "does-not-exist"}},
	}
	_, err := Hydrate(asset, newTestRegistry())
	if err == nil {
		t.Fatal("expected hydration error for unknown node type")
	}
	var hydrationErr *HydrationError
	if !errorsAsHydration(err, &hydrationErr) {
		t.Fatalf("expected *HydrationError, got %T", err)
	}
}

func errorsAsHydration(err error, target **HydrationError) bool {
	if he, ok := err.(*HydrationError); ok {
		*target = he
		return true
	}
	return false
}

func TestHydrate_ParameterBindingDefaults(t *testing.T) {
	asset := &GraphAsset{
		ID: "g1",
		Nodes: []SerializedNode{
			{ID: "A", Type: "literal", Params: map[string]any{"value": "explicit"}},
			{ID: "B", Type: "literal"},
		},
	}
	withDefault := literalDefinition
	withDefault.Parameters = []ParameterDescriptor{{ID: "value", DefaultValue: "fallback"}}
	reg := NewRegistry()
	reg.Register(withDefault, newLiteralNode)

	hg, err := Hydrate(asset, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nodeA := hg.Nodes["A"].Instance.(*literalNode)
	if got := nodeA.ParamString("value", ""); got != "explicit" {
		t.Fatalf("expected explicit param to win, got %q", got)
	}

	nodeB := hg.Nodes["B"].Instance.(*literalNode)
	if got := nodeB.ParamString("value", ""); got != "fallback" {
		t.Fatalf("expected default value fallback, got %q", got)
	}
}

func TestHydrate_FlowAndDataAdjacency(t *testing.T) {
	asset := &GraphAsset{
		ID: "g1",
		Nodes: []SerializedNode{
			{ID: "A", Type: "literal"},
			{ID: "B", Type: "literal"},
		},
		Connections: []SerializedConnection{
			{Kind: FlowConnection, From: Endpoint{"A", "next"}, To: Endpoint{"B", "in"}},
			{Kind: DataConnection, From: Endpoint{"A", "v"}, To: Endpoint{"B", "value"}},
		},
	}
	hg, err := Hydrate(asset, newTestRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	targets := hg.FlowTargets("A", "next")
	if len(targets) != 1 || targets[0] != "B" {
		t.Fatalf("expected flow target [B], got %v", targets)
	}

	scope := NewScope()
	scope.Set("A", "v", "hello")
	inputs := hg.BuildInputs("B", scope)
	if inputs["value"] != "hello" {
		t.Fatalf("expected data connection to overlay scope value, got %v", inputs["value"])
	}
}

func TestHydrate_RootResolution(t *testing.T) {
	t.Run("explicit root", func(t *testing.T) {
		asset := &GraphAsset{
			ID:    "g1",
			Root:  "B",
			Nodes: []SerializedNode{{ID: "A", Type: "literal"}, {ID: "B", Type: "literal"}},
		}
		hg, err := Hydrate(asset, newTestRegistry())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hg.Roots) != 1 || hg.Roots[0] != "B" {
			t.Fatalf("expected explicit root [B], got %v", hg.Roots)
		}
	})

	t.Run("computed from no-inbound nodes", func(t *testing.T) {
		asset := &GraphAsset{
			ID:    "g1",
			Nodes: []SerializedNode{{ID: "A", Type: "literal"}, {ID: "B", Type: "literal"}},
			Connections: []SerializedConnection{
				{Kind: FlowConnection, From: Endpoint{"A", "next"}, To: Endpoint{"B", "in"}},
			},
		}
		hg, err := Hydrate(asset, newTestRegistry())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hg.Roots) != 1 || hg.Roots[0] != "A" {
			t.Fatalf("expected computed root [A], got %v", hg.Roots)
		}
	})

	t.Run("falls back to first node when every node has inbound", func(t *testing.T) {
		asset := &GraphAsset{
			ID:    "g1",
			Nodes: []SerializedNode{{ID: "A", Type: "literal"}, {ID: "B", Type: "literal"}},
			Connections: []SerializedConnection{
				{Kind: FlowConnection, From: Endpoint{"A", "next"}, To: Endpoint{"B", "in"}},
				{Kind: FlowConnection, From: Endpoint{"B", "next"}, To: Endpoint{"A", "in"}},
			},
		}
		hg, err := Hydrate(asset, newTestRegistry())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hg.Roots) != 1 || hg.Roots[0] != "A" {
			t.Fatalf("expected fallback root [A] (first declared), got %v", hg.Roots)
		}
	})
}

func TestHydrate_ListNodeIDsBijective(t *testing.T) {
	asset := &GraphAsset{
		ID:    "g1",
		Nodes: []SerializedNode{{ID: "A", Type: "literal"}, {ID: "B", Type: "literal"}, {ID: "C", Type: "literal"}},
	}
	hg, err := Hydrate(asset, newTestRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := hg.ListNodeIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	for _, want := range []string{"A", "B", "C"} {
		if !seen[want] {
			t.Fatalf("expected id %q present in %v", want, ids)
		}
	}
}
