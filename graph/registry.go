package graph

import (
	"fmt"
	"sync"
)

// Constructor builds a fresh, zero-configured Node instance. Hydration calls
// it once per serialized node and then binds parameters into the result.
type Constructor func() Node

// NodeKind pairs a registered type's declarative schema with the
// constructor that builds instances of it.
type NodeKind struct {
	Definition  NodeDefinition
	Constructor Constructor
}

// Registry is a process-wide, read-only-at-runtime mapping from a node-type
// string to a NodeKind. Registries are populated during process start-up
// (typically via nodes.RegisterBuiltins and host-specific registrations)
// before any Runner is started; Lookup is safe for concurrent use once
// registration is complete, and Register itself is also safe for concurrent
// use so that independent packages can register their kinds from init().
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]NodeKind
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]NodeKind)}
}

// Register adds a node kind under Definition.Type. It panics if Type is
// empty, Constructor is nil, or the type is already registered — these are
// all authoring-time programmer errors, not run-time conditions, so there is
// no sensible way to recover and continue.
func (r *Registry) Register(def NodeDefinition, ctor Constructor) {
	if def.Type == "" {
		panic("graph: Register called with empty NodeDefinition.Type")
	}
	if ctor == nil {
		panic(fmt.Sprintf("graph: Register(%q) called with nil Constructor", def.Type))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[def.Type]; exists {
		panic(fmt.Sprintf("graph: node type %q already registered", def.Type))
	}
	r.kinds[def.Type] = NodeKind{Definition: def, Constructor: ctor}
}

// Lookup returns the registered kind for typ, or ok=false if unregistered.
func (r *Registry) Lookup(typ string) (NodeKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[typ]
	return k, ok
}

// Types returns every registered type name, in no particular order. Useful
// for diagnostics and authoring tools that want to list available node
// kinds.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for t := range r.kinds {
		out = append(out, t)
	}
	return out
}
