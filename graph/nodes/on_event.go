package nodes

import (
	"context"

	"github.com/vexgraph/runtime/graph"
	"github.com/vexgraph/runtime/graph/host"
)

// OnEvent resolves an event gateway capability from services (by the
// "servicesKey" parameter, falling back to the well-known "events" slot),
// subscribes to "eventName", and spawns an ephemeral child run of
// "graphId" for each emission, with fresh scope and (optionally) isolated
// blackboard, optionally binding the payload into a blackboard variable.
// The subscription is released when the enclosing run cancels; the node
// then settles as skipped, the cancelled-equivalent result.
type OnEvent struct {
	graph.BaseNode
}

// NewOnEvent constructs an OnEvent node instance.
func NewOnEvent() graph.Node {
	n := &OnEvent{}
	n.SetHooks(n.onExecute, nil)
	return n
}

func (n *OnEvent) onExecute(ctx *graph.ExecContext) (graph.Result, error) {
	gateway, err := resolveEventGateway(ctx, n.ParamString("servicesKey", "events"))
	if err != nil {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": err.Error()},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	eventName := n.ParamString("eventName", "")
	graphID := n.ParamString("graphId", "")
	payloadKey := n.ParamString("payloadKey", "")
	isolateBlackboard := n.ParamBool("isolateBlackboard", true)

	unsubscribe, err := gateway.On(eventName, func(payload map[string]any) {
		n.spawnChildRun(ctx, graphID, payloadKey, payload, isolateBlackboard)
	})
	if err != nil {
		return graph.Result{
			Status:      graph.StatusFailure,
			Outputs:     map[string]any{"error": err.Error()},
			Transitions: []graph.Transition{{PinID: "failure"}},
		}, nil
	}

	ctx.Suspend(func() {
		<-ctx.Signal.Done()
	})
	unsubscribe()

	return graph.Skipped(), nil
}

func (n *OnEvent) spawnChildRun(ctx *graph.ExecContext, graphID, payloadKey string, payload map[string]any, isolateBlackboard bool) {
	if ctx.Library == nil || graphID == "" {
		return
	}
	raw, err := ctx.Library.Instantiate(context.Background(), graphID)
	if err != nil {
		return
	}
	childGraph, ok := raw.(*graph.HydratedGraph)
	if !ok {
		return
	}

	board := graph.NewBlackboard()
	if !isolateBlackboard {
		board = ctx.Blackboard.Clone()
	}
	if payloadKey != "" {
		board.Set(payloadKey, payload)
	}

	childRunner := graph.NewRunner(childGraph, ctx.EntityID,
		graph.WithAdapter(ctx.Adapter),
		graph.WithServices(ctx.Services),
		graph.WithGraphLibrary(ctx.Library),
		graph.WithBlackboard(board),
	)
	childRunner.Run(context.Background())
}

// resolveEventGateway probes services for key, falling back to the
// well-known "events" slot, and asserts the result implements
// host.EventGateway.
func resolveEventGateway(ctx *graph.ExecContext, key string) (host.EventGateway, error) {
	if ctx.Services == nil {
		return nil, errNoServices
	}
	if v, ok := ctx.Services.Get(key); ok {
		if gw, ok := v.(host.EventGateway); ok {
			return gw, nil
		}
	}
	if key != "events" {
		if v, ok := ctx.Services.Get("events"); ok {
			if gw, ok := v.(host.EventGateway); ok {
				return gw, nil
			}
		}
	}
	return nil, errNoEventGateway
}

// OnEventDefinition describes OnEvent's pins and parameters.
var OnEventDefinition = graph.NodeDefinition{
	Type:  "on_event",
	Label: "On Event",
	Pins: []graph.Pin{
		{ID: "in", Dir: graph.In, Signal: graph.FlowSignal},
		{ID: "failure", Dir: graph.Out, Signal: graph.FlowSignal, Strategy: graph.Sequential},
	},
	Parameters: []graph.ParameterDescriptor{
		{ID: "servicesKey", Label: "Services key", DefaultValue: "events"},
		{ID: "eventName", Label: "Event name"},
		{ID: "graphId", Label: "Graph id"},
		{ID: "payloadKey", Label: "Payload blackboard key"},
		{ID: "isolateBlackboard", Label: "Isolate child blackboard", DefaultValue: true},
	},
}
