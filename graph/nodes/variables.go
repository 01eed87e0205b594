package nodes

import "github.com/vexgraph/runtime/graph"

// SetVariable writes its "value" input to the blackboard under "key"
// (param or input, input wins), then routes to "next".
type SetVariable struct {
	graph.BaseNode
}

// NewSetVariable constructs a SetVariable node instance.
func NewSetVariable() graph.Node {
	n := &SetVariable{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *SetVariable) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	key := n.ParamString("key", "")
	if k, ok := ctx.Input("key"); ok {
		if s, ok := k.(string); ok && s != "" {
			key = s
		}
	}
	if key == "" {
		return graph.Result{Status: graph.StatusFailure, Outputs: map[string]any{"error": "set variable requires a key"}}, nil
	}

	value, _ := ctx.Input("value")
	ctx.Blackboard.Set(key, value)

	return graph.Result{
		Status:      graph.StatusSuccess,
		Transitions: []graph.Transition{{PinID: "next"}},
	}, nil
}

// SetVariableDefinition describes SetVariable's pins and parameters.
var SetVariableDefinition = graph.NodeDefinition{
	Type:  "set_variable",
	Label: "Set Variable",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "key", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "value", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "next", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "key", Label: "Key"},
	},
}

// GetVariable reads "key" from the blackboard, falling back to a configured
// default when unset, and publishes it on the "value" output pin.
type GetVariable struct {
	graph.BaseNode
}

// NewGetVariable constructs a GetVariable node instance.
func NewGetVariable() graph.Node {
	n := &GetVariable{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *GetVariable) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	key := n.ParamString("key", "")
	if k, ok := ctx.Input("key"); ok {
		if s, ok := k.(string); ok && s != "" {
			key = s
		}
	}

	value, ok := ctx.Blackboard.Get(key)
	if !ok {
		value = n.Param("default")
	}

	return graph.Result{
		Status:      graph.StatusSuccess,
		Outputs:     map[string]any{"value": value},
		Transitions: []graph.Transition{{PinID: "next"}},
	}, nil
}

// GetVariableDefinition describes GetVariable's pins and parameters.
var GetVariableDefinition = graph.NodeDefinition{
	Type:  "get_variable",
	Label: "Get Variable",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "key", Dir: graph.In, Signal: graph.DataSignal},
		{ID: "value", Dir: graph.Out, Signal: graph.DataSignal},
		{ID: "next", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "key", Label: "Key"},
		{ID: "default", Label: "Default value"},
	},
}
