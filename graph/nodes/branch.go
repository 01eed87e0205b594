// Package nodes implements the built-in control node set and registers
// them against a graph.Registry.
package nodes

import "github.com/vexgraph/runtime/graph"

// Branch routes to pin "true" or "false" based on the truthiness of its
// "condition" input.
type Branch struct {
	graph.BaseNode
}

// NewBranch constructs a Branch node instance.
func NewBranch() graph.Node {
	n := &Branch{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *Branch) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	cond, _ := ctx.Input("condition")
	pin := "false"
	if graph.Truthy(cond) {
		pin = "true"
	}
	return graph.Result{
		Status:      graph.StatusSuccess,
		Transitions: []graph.Transition{{PinID: pin}},
	}, nil
}

// BranchDefinition describes Branch's pins for registration.
var BranchDefinition = graph.NodeDefinition{
	Type:  "branch",
	Label: "Branch",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "condition", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "true", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
		{ID: "false", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
}
