package nodes

import "github.com/vexgraph/runtime/graph"

// Parallel emits transitions on up to four branch pins ("branchA".."branchD"),
// all with parallel strategy; awaitCompletion is applied uniformly across
// every branch via the "await" parameter.
type Parallel struct {
	graph.BaseNode
}

// NewParallel constructs a Parallel node instance.
func NewParallel() graph.Node {
	n := &Parallel{}
	n.SetHooks(n.onExecute, nil)
	return n
}

var parallelBranchPins = []string{"branchA", "branchB", "branchC", "branchD"}

func (n *Parallel) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	await := n.ParamBool("await", true)
	transitions := make([]graph.Transition, 0, len(parallelBranchPins))
	for _, pin := range parallelBranchPins {
		transitions = append(transitions, graph.Transition{
			PinID:           pin,
			Strategy:        graph.Parallel,
			AwaitCompletion: &await,
		})
	}
	return graph.Result{Status: graph.StatusSuccess, Transitions: transitions}, nil
}

// ParallelDefinition describes Parallel's pins and parameters for
// registration.
var ParallelDefinition = graph.NodeDefinition{
	Type:  "parallel",
	Label: "Parallel",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "branchA", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Parallel},
		{ID: "branchB", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Parallel},
		{ID: "branchC", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Parallel},
		{ID: "branchD", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Parallel},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "await", Label: "Await branch completion", DefaultValue: true},
	},
}
