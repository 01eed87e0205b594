// Package metrics provides Prometheus-compatible instrumentation for a
// Runner.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RunnerMetrics exposes fiber/node/run level Prometheus metrics under the
// "vexgraph_" namespace:
//
//   - inflight_fibers (gauge): fibers currently live for a run.
//   - node_latency_ms (histogram): node invocation duration, labeled by
//     node_type and status.
//   - node_dispatch_total (counter): node invocations, labeled by node_type.
//   - wait_events_total (counter): waitFor suspensions entered, labeled by
//     node_type.
//   - run_completed_total (counter): terminal run outcomes, labeled by
//     state (completed/cancelled/failed).
type RunnerMetrics struct {
	inflightFibers prometheus.Gauge
	nodeLatency    *prometheus.HistogramVec
	nodeDispatch   *prometheus.CounterVec
	waitEvents     *prometheus.CounterVec
	runCompleted   *prometheus.CounterVec
}

// NewRunnerMetrics registers every metric with registry (prometheus.
// DefaultRegisterer when nil) and returns the collector.
func NewRunnerMetrics(registry prometheus.Registerer) *RunnerMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &RunnerMetrics{
		inflightFibers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vexgraph",
			Name:      "inflight_fibers",
			Help:      "Number of fibers currently live across active runs",
		}),
		nodeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vexgraph",
			Name:      "node_latency_ms",
			Help:      "Node invocation duration in milliseconds",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"node_type", "status"}),
		nodeDispatch: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vexgraph",
			Name:      "node_dispatch_total",
			Help:      "Cumulative count of node invocations",
		}, []string{"node_type"}),
		waitEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vexgraph",
			Name:      "wait_events_total",
			Help:      "Cumulative count of waitFor suspensions entered",
		}, []string{"node_type"}),
		runCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vexgraph",
			Name:      "run_completed_total",
			Help:      "Cumulative count of runs reaching a terminal state",
		}, []string{"state"}),
	}
}

// FiberSpawned increments the inflight fiber gauge.
func (m *RunnerMetrics) FiberSpawned() {
	if m == nil {
		return
	}
	m.inflightFibers.Inc()
}

// FiberDone decrements the inflight fiber gauge.
func (m *RunnerMetrics) FiberDone() {
	if m == nil {
		return
	}
	m.inflightFibers.Dec()
}

// NodeDispatched records one node invocation of nodeType.
func (m *RunnerMetrics) NodeDispatched(nodeType string) {
	if m == nil {
		return
	}
	m.nodeDispatch.WithLabelValues(nodeType).Inc()
}

// NodeCompleted records nodeType's invocation latency and outcome status.
func (m *RunnerMetrics) NodeCompleted(nodeType, status string, latency time.Duration) {
	if m == nil {
		return
	}
	m.nodeLatency.WithLabelValues(nodeType, status).Observe(float64(latency.Milliseconds()))
}

// WaitEntered records one waitFor suspension for nodeType.
func (m *RunnerMetrics) WaitEntered(nodeType string) {
	if m == nil {
		return
	}
	m.waitEvents.WithLabelValues(nodeType).Inc()
}

// RunFinished records a run reaching terminal state.
func (m *RunnerMetrics) RunFinished(state string) {
	if m == nil {
		return
	}
	m.runCompleted.WithLabelValues(state).Inc()
}
