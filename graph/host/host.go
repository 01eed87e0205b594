// Package host declares the interfaces the runtime consumes from its
// embedding application — the entity/component world, the graph asset
// library, and an opaque services bag — without depending on any concrete
// implementation: a narrow, context-aware action surface with structured
// map[string]any input/output.
package host

import "context"

// Adapter is the entity/component host a Runner drives nodes against. The
// runner never inspects component internals; it delegates every effectful
// action to InvokeAction and treats the result as opaque.
type Adapter interface {
	// GetEntity returns the entity identified by entityID, or an error if it
	// does not exist.
	GetEntity(ctx context.Context, entityID string) (any, error)

	// GetComponent returns the named component attached to entityID, or nil
	// if the entity has no such component.
	GetComponent(ctx context.Context, entityID, componentType string) (any, error)

	// InvokeAction calls actionID on componentType attached to entityID with
	// args, returning the action's structured result.
	InvokeAction(ctx context.Context, entityID, componentType, actionID string, args map[string]any) (map[string]any, error)
}

// GraphLibrary maps graph ids to graph assets for the Run Subgraph and On
// Event nodes. Implementations must fail Instantiate/GetAsset clearly on an
// unknown id rather than returning a zero value.
//
// Instantiate returns any (rather than a concrete hydrated-graph type)
// because the type that represents a hydrated graph lives in the graph
// package, which itself depends on host for ExecContext — callers in the
// nodes package, which import both, type-assert the result to
// *graph.HydratedGraph.
type GraphLibrary interface {
	// Instantiate hydrates and returns a fresh, unshared hydrated graph for
	// graphID.
	Instantiate(ctx context.Context, graphID string) (any, error)

	// GetAsset returns the raw asset registered under graphID.
	GetAsset(ctx context.Context, graphID string) (any, error)
}

// Services is an opaque capability bag passed through to every
// ExecContext. The runner imposes no schema on it; nodes probe it for
// well-known capabilities such as an event gateway.
type Services interface {
	// Get returns the capability registered under name, or false if absent.
	Get(name string) (any, bool)
}

// EventGateway is the well-known "events" capability nodes probe Services
// for (falling back to the services.events well-known slot per the On Event
// node's contract).
type EventGateway interface {
	// On subscribes listener to eventName, returning an unsubscribe func.
	On(eventName string, listener func(payload map[string]any)) (unsubscribe func(), err error)
}
