package nodes

import "github.com/vexgraph/runtime/graph"

// Loop is stateful across its own invocations via a blackboard key
// "loop:<nodeId>:<loopKey>": each call reads the current index
// (default 0); while it is below "count" it increments and routes to
// "body", emitting the pre-increment value as "index"; once exhausted it
// clears the key and routes to "complete". Downstream "body" chains
// normally connect back to this node, which is how the runner re-enters
// it on each iteration.
type Loop struct {
	graph.BaseNode
}

// NewLoop constructs a Loop node instance.
func NewLoop() graph.Node {
	n := &Loop{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *Loop) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	count := n.ParamInt("count", 0)
	loopKey := n.ParamString("loopKey", "default")
	key := "loop:" + ctx.NodeID + ":" + loopKey

	index := 0
	if v, ok := ctx.Blackboard.Get(key); ok {
		if i, ok := v.(int); ok {
			index = i
		}
	}

	if index < count {
		ctx.Blackboard.Set(key, index+1)
		return graph.Result{
			Status:      graph.StatusSuccess,
			Outputs:     map[string]any{"index": index},
			Transitions: []graph.Transition{{PinID: "body"}},
		}, nil
	}

	ctx.Blackboard.Delete(key)
	return graph.Result{
		Status:      graph.StatusSuccess,
		Transitions: []graph.Transition{{PinID: "complete"}},
	}, nil
}

// LoopDefinition describes Loop's pins and parameters.
var LoopDefinition = graph.NodeDefinition{
	Type:  "loop",
	Label: "Loop",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "index", Dir: graph.Out, Signal: graph.DataSignal},
		{ID: "body", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
		{ID: "complete", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "count", Label: "Count", DefaultValue: 0},
		{ID: "loopKey", Label: "Loop key", DefaultValue: "default"},
	},
}
