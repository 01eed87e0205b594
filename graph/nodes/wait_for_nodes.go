package nodes

import (
	"strings"

	"github.com/vexgraph/runtime/graph"
)

// WaitForNodes emits a waitFor result over the union of (a) parameterized
// node ids parsed from a comma/whitespace-delimited string or array and (b)
// input-pin supplied ids, requiring at least one target; after the wait, it
// routes to "next" and emits the resolved id list as "nodes".
type WaitForNodes struct {
	graph.BaseNode
}

// NewWaitForNodes constructs a WaitForNodes node instance.
func NewWaitForNodes() graph.Node {
	n := &WaitForNodes{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *WaitForNodes) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	seen := make(map[string]bool)
	var targets []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			targets = append(targets, id)
		}
	}

	for _, id := range parseNodeIDList(n.Param("nodeIds")) {
		add(id)
	}
	if v, ok := ctx.Input("nodeIds"); ok {
		for _, id := range parseNodeIDList(v) {
			add(id)
		}
	}

	if len(targets) == 0 {
		return graph.Result{Status: graph.StatusFailure, Outputs: map[string]any{"error": "wait for nodes requires at least one target"}}, nil
	}

	return graph.Result{
		Status:      graph.StatusSuccess,
		Outputs:     map[string]any{"nodes": targets},
		Transitions: []graph.Transition{{PinID: "next"}},
		WaitFor:     targets,
	}, nil
}

// parseNodeIDList accepts a string (comma/whitespace-delimited) or a
// []any/[]string and returns the normalized, trimmed id list.
func parseNodeIDList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		fields := strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// WaitForNodesDefinition describes WaitForNodes' pins and parameters.
var WaitForNodesDefinition = graph.NodeDefinition{
	Type:  "wait_for_nodes",
	Label: "Wait For Nodes",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "nodeIds", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "nodes", Dir: graph.Out, Signal: graph.DataSignal},
		{ID: "next", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "nodeIds", Label: "Node ids"},
	},
}
