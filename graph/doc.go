// Package graph provides the core execution engine for visual/data-flow
// graphs: a process-wide node registry, hydration of authored graph assets,
// and a cooperative fiber scheduler that drives hydrated graphs against a
// host's entity/component world.
package graph
