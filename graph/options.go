package graph

import (
	"github.com/vexgraph/runtime/graph/emit"
	"github.com/vexgraph/runtime/graph/host"
	"github.com/vexgraph/runtime/graph/metrics"
)

// Option configures a Runner at construction time using the standard
// functional-options shape.
type Option func(*Runner)

// WithAdapter sets the host adapter nodes dispatch actions through.
func WithAdapter(adapter host.Adapter) Option {
	return func(r *Runner) { r.adapter = adapter }
}

// WithGraphLibrary sets the graph library the Run Subgraph and On Event
// nodes consume. Without one, Run Subgraph fails with a configuration error
// and On Event's emissions start no child run.
func WithGraphLibrary(library host.GraphLibrary) Option {
	return func(r *Runner) { r.library = library }
}

// WithServices sets the opaque services bag passed through to every
// ExecContext.
func WithServices(services host.Services) Option {
	return func(r *Runner) { r.services = services }
}

// WithEmitter sets the observability sink for run events. Defaults to
// emit.NewNullEmitter().
func WithEmitter(emitter emit.Emitter) Option {
	return func(r *Runner) { r.emitter = emitter }
}

// WithMetrics attaches a RunnerMetrics collector. Every metrics call is
// nil-safe, so WithMetrics is optional.
func WithMetrics(m *metrics.RunnerMetrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithRunID sets the run identifier carried on every emitted event.
// Unset runs get a generated UUID instead of an empty string.
func WithRunID(runID string) Option {
	return func(r *Runner) { r.runID = runID }
}

// WithBlackboard seeds the run's blackboard from initial, used by Run
// Subgraph / On Event to pre-populate a child run's variables from an args
// object.
func WithBlackboard(initial *Blackboard) Option {
	return func(r *Runner) {
		if initial != nil {
			r.board = initial
		}
	}
}

// WithScope seeds the run's scope, used by Run Subgraph when the parent
// asks to share its scope with the child rather than start it fresh.
func WithScope(initial *Scope) Option {
	return func(r *Runner) {
		if initial != nil {
			r.scope = initial
		}
	}
}
