package nodes

import (
	"time"

	"github.com/vexgraph/runtime/graph"
)

// Delay sleeps for its "ms" parameter before routing to "next", observing
// cancellation and fast-forward. Delay is the node timeout-style behaviour
// is composed from; the scheduler itself imposes no wall-clock policy.
type Delay struct {
	graph.BaseNode
}

// NewDelay constructs a Delay node instance.
func NewDelay() graph.Node {
	n := &Delay{}
	n.SetHooks(n.onExecute, n.onFastForward)
	return n
}

func (n *Delay) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	if ctx.Signal.Cancelled() || ctx.Signal.FastForwarding() {
		return graph.Skipped(), nil
	}

	d := n.ParamDuration("ms", 0)
	timer := time.NewTimer(d)
	defer timer.Stop()

	var cancelled bool
	ctx.Suspend(func() {
		select {
		case <-timer.C:
		case <-ctx.Signal.Done():
			cancelled = true
		}
	})

	if cancelled {
		return graph.Skipped(), nil
	}
	return graph.Result{
		Status:      graph.StatusSuccess,
		Transitions: []graph.Transition{{PinID: "next"}},
	}, nil
}

func (n *Delay) onFastForward(ctx *graph.ExecContext) (graph.Result, error) {
	return graph.Skipped(), nil
}

// DelayDefinition describes Delay's pins and parameters for registration.
var DelayDefinition = graph.NodeDefinition{
	Type:  "delay",
	Label: "Delay",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "next", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "ms", Label: "Milliseconds", DefaultValue: 0},
	},
}
