package nodes

import (
	"context"

	"github.com/vexgraph/runtime/graph"
)

// CallComponentAction invokes adapter.InvokeAction(entityId, componentType,
// actionId, args) and routes "success" or "failure" on the outcome. Entity
// resolution follows the order the context entity resolution Open Question
// settles on: the "entity" input if set, else the "targetEntity" parameter,
// else the invoking context's entity id.
type CallComponentAction struct {
	graph.BaseNode
}

// NewCallComponentAction constructs a CallComponentAction node instance.
func NewCallComponentAction() graph.Node {
	n := &CallComponentAction{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *CallComponentAction) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	entityID := ctx.EntityID
	if target := n.ParamString("targetEntity", ""); target != "" {
		entityID = target
	}
	if v, ok := ctx.Input("entity"); ok {
		if s, ok := v.(string); ok && s != "" {
			entityID = s
		}
	}

	componentType := n.ParamString("componentType", "")
	actionID := n.ParamString("actionId", "")
	args, _ := ctx.Input("args")
	argsMap, _ := args.(map[string]any)

	if ctx.Adapter == nil {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": "no host adapter configured"},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	var suspendErr error
	var out map[string]any
	ctx.Suspend(func() {
		out, suspendErr = ctx.Adapter.InvokeAction(context.Background(), entityID, componentType, actionID, argsMap)
	})
	if suspendErr != nil {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": suspendErr.Error()},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	return graph.Result{
		Status:      graph.StatusSuccess,
		Outputs:     map[string]any{"result": out},
		Transitions: []graph.Transition{{PinID: "success"}},
	}, nil
}

// ComponentActionDefinition describes CallComponentAction's pins and
// parameters.
var ComponentActionDefinition = graph.NodeDefinition{
	Type:  "call_component_action",
	Label: "Call Component Action",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "entity", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "args", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "result", Dir: graph.Out, Signal: graph.DataSignal},
		{ID: "success", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
		{ID: "failure", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "targetEntity", Label: "Target entity"},
		{ID: "componentType", Label: "Component type"},
		{ID: "actionId", Label: "Action id"},
	},
}
