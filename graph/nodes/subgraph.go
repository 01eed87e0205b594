package nodes

import (
	"context"

	"github.com/vexgraph/runtime/graph"
)

// RunSubgraph instantiates a child graph from the configured host.
// GraphLibrary and runs it with a nested Runner sharing the parent's
// adapter and services. Scope and/or blackboard are shared with the
// parent per the "shareScope"/"shareBlackboard" parameters; otherwise the
// child starts fresh, seeded from an "args" object. When "awaitCompletion"
// is set, the node awaits the child handle and turns a failed child run
// into this node's own failure result.
type RunSubgraph struct {
	graph.BaseNode
}

// NewRunSubgraph constructs a RunSubgraph node instance.
func NewRunSubgraph() graph.Node {
	n := &RunSubgraph{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *RunSubgraph) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	if ctx.Library == nil {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": "run subgraph requires a graph library"},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	graphID := n.ParamString("graphId", "")
	if v, ok := ctx.Input("graphId"); ok {
		if s, ok := v.(string); ok && s != "" {
			graphID = s
		}
	}
	if graphID == "" {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": "run subgraph requires a target graph id"},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	raw, err := ctx.Library.Instantiate(context.Background(), graphID)
	if err != nil {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": err.Error()},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}
	childGraph, ok := raw.(*graph.HydratedGraph)
	if !ok {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": "graph library returned an unexpected type"},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	opts := []graph.Option{
		graph.WithAdapter(ctx.Adapter),
		graph.WithServices(ctx.Services),
		graph.WithGraphLibrary(ctx.Library),
	}
	if n.ParamBool("shareScope", false) {
		opts = append(opts, graph.WithScope(ctx.Scope))
	}
	childBoard := ctx.Blackboard
	if !n.ParamBool("shareBlackboard", false) {
		childBoard = graph.NewBlackboard()
	}
	if args, ok := ctx.Input("args"); ok {
		if m, ok := args.(map[string]any); ok {
			for k, v := range m {
				childBoard.Set(k, v)
			}
		}
	}
	opts = append(opts, graph.WithBlackboard(childBoard))

	childRunner := graph.NewRunner(childGraph, ctx.EntityID, opts...)

	await := n.ParamBool("awaitCompletion", true)
	if !await {
		ctx.Suspend(func() {
			childRunner.Run(context.Background())
		})
		return graph.Result{Status: graph.StatusSuccess, Transitions: []graph.Transition{{PinID: "next"}}}, nil
	}

	var state graph.RunState
	var hadFailureStatus bool
	ctx.Suspend(func() {
		handle := childRunner.Run(context.Background())
		state = handle.AwaitCompletion(context.Background())
		hadFailureStatus = handle.HadFailureStatus()
	})

	if state == graph.StateFailed || hadFailureStatus {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": "subgraph run failed"},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	return graph.Result{
		Status:      graph.StatusSuccess,
		Transitions: []graph.Transition{{PinID: "next"}},
	}, nil
}

// RunSubgraphDefinition describes RunSubgraph's pins and parameters.
var RunSubgraphDefinition = graph.NodeDefinition{
	Type:  "run_subgraph",
	Label: "Run Subgraph",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "graphId", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "args", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "next", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
		{ID: "failure", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "graphId", Label: "Graph id"},
		{ID: "shareScope", Label: "Share scope with parent", DefaultValue: false},
		{ID: "shareBlackboard", Label: "Share blackboard with parent", DefaultValue: false},
		{ID: "awaitCompletion", Label: "Await completion", DefaultValue: true},
	},
}
