package graph

import "github.com/vexgraph/runtime/graph/host"

// ExecContext is the per-invocation view handed to Node.Execute and
// Node.OnFastForward: the entity this invocation runs against, the host
// adapter, the run's Scope and Blackboard, its Signal, the node's resolved
// inputs, and the optional graph library / services consumed by subgraph
// and event nodes.
type ExecContext struct {
	// NodeID is the id of the node instance currently executing.
	NodeID string

	// EntityID is the entity this run (or the invoking node, for
	// component-call style nodes) is bound to.
	EntityID string

	Adapter    host.Adapter
	Scope      *Scope
	Blackboard *Blackboard
	Signal     *Signal

	// Inputs is this invocation's resolved input map: literal inputs
	// overlaid with the latest scope writes from each data-connection
	// source, the last listed source winning.
	Inputs map[string]any

	// Library and Services are nil unless the Runner was configured with
	// them. Run Subgraph fails without a Library and On Event fails without
	// Services; On Event with no Library still subscribes, but its
	// emissions start no child run.
	Library  host.GraphLibrary
	Services host.Services

	// RunID identifies the run this invocation belongs to, for emitted
	// events.
	RunID string

	// yield and resume bracket a suspension point: yield releases the
	// scheduler's mutual-exclusion for the duration of a blocking wait (a
	// timer, an awaited child run), resume reacquires it. Set by the
	// Runner for every invocation; nil only in tests that construct an
	// ExecContext directly without going through a Runner, in which case
	// Suspend degrades to calling wait() with no locking around it.
	yield  func()
	resume func()
}

// Suspend runs wait after releasing the scheduler's mutual exclusion, and
// reacquires it before returning. Nodes that block on something other than
// the waitFor primitive — Delay's timer, Run Subgraph awaiting a child
// handle — call this so sibling fibers keep making progress while they're
// parked.
func (c *ExecContext) Suspend(wait func()) {
	if c.yield != nil {
		c.yield()
	}
	wait()
	if c.resume != nil {
		c.resume()
	}
}

// Input returns ctx.Inputs[pinID] and whether it was present.
func (c *ExecContext) Input(pinID string) (any, bool) {
	v, ok := c.Inputs[pinID]
	return v, ok
}

// InputString returns the named input as a string, or def if absent or not
// a string.
func (c *ExecContext) InputString(pinID, def string) string {
	v, ok := c.Inputs[pinID]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
