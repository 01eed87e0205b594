package graph

import "context"

// Handle is the execution handle exposed by Runner.Run: cancellation,
// fast-forward opt-ins, status inspection, and completion awaiting.
type Handle struct {
	runner *Runner
}

// AwaitCompletion blocks until the run reaches a terminal state or ctx is
// done, whichever comes first, and returns the run's state at that point.
func (h *Handle) AwaitCompletion(ctx context.Context) RunState {
	select {
	case <-h.runner.runDone:
	case <-ctx.Done():
	}
	return h.runner.Status()
}

// Cancel idempotently cancels the run. reason is recorded on the Signal
// and surfaced to subscribers and emitted events.
func (h *Handle) Cancel(reason string) {
	h.runner.cancel(reason)
}

// FastForwardNode adds id to the fast-forward node set: that node's next
// invocation calls OnFastForward instead of Execute.
func (h *Handle) FastForwardNode(id string) {
	h.runner.fastForwardNode(id)
}

// FastForwardWhere appends a predicate matched against every dispatched
// node's (id, type) pair.
func (h *Handle) FastForwardWhere(rule func(nodeID, nodeType string) bool) {
	h.runner.fastForwardWhere(rule)
}

// Status returns the run's current lifecycle state.
func (h *Handle) Status() RunState {
	return h.runner.Status()
}

// Scope returns a snapshot of scope as a flat "nodeId:pinId" -> value
// mapping.
func (h *Handle) Scope() map[string]any {
	return h.runner.ScopeSnapshot()
}

// Blackboard returns a snapshot of the run's blackboard variables.
func (h *Handle) Blackboard() map[string]any {
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	return h.runner.board.Snapshot()
}

// HadFailureStatus reports whether any node invocation in this run produced
// a Result with Status StatusFailure, regardless of whether that node's own
// failure pin was connected to anything downstream. A run can reach
// StateCompleted while this is true — a node's failure output is an
// ordinary routing outcome, not necessarily a Go error that cancels the
// run — so callers that need to detect "some node failed" rather than
// "the run itself errored" should check this instead of Status.
func (h *Handle) HadFailureStatus() bool {
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	return h.runner.anyFailureStatus
}
