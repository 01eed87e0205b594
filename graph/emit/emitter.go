// Package emit provides event emission and observability for graph runs.
package emit

import "context"

// Emitter receives observability events produced by a Runner: signal
// transitions, fiber spawns, node dispatch/completion, waits, and
// cancellation. Implementations enable pluggable observability backends —
// logging, OpenTelemetry tracing, in-memory history for tests.
//
// Implementations must be:
//   - Non-blocking: never slow down a run noticeably.
//   - Thread-safe: Emit may be called concurrently from multiple fibers.
//   - Resilient: Emit must not panic; a broken backend should drop events,
//     not crash the run it's observing.
type Emitter interface {
	// Emit sends a single observability event.
	Emit(event Event)

	// EmitBatch sends multiple events in one call, preserving order. Used
	// by callers that buffer events between suspension points.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until all buffered events have been delivered, or ctx is
	// done. Safe to call multiple times.
	Flush(ctx context.Context) error
}
