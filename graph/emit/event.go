package emit

// Event is one observability event emitted during a run.
//
// Common Msg values: "signal_cancelled", "signal_fast_forward",
// "fiber_spawn", "fiber_done", "node_dispatch", "node_complete",
// "wait_begin", "wait_resolved", "run_completed".
type Event struct {
	// RunID identifies the run that emitted this event.
	RunID string

	// Step is a dispatch counter field that emitters record and
	// BufferedEmitter can filter on. The Runner in package graph does not
	// assign it: every event it emits carries Step zero.
	Step int

	// NodeID identifies which node emitted this event. Empty for run-level
	// events.
	NodeID string

	// Msg is a short machine-matchable event name.
	Msg string

	// Meta carries event-specific structured data, e.g. "status", "reason",
	// "duration_ms", "targets".
	Meta map[string]any
}
