package graph

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vexgraph/runtime/graph/emit"
	"github.com/vexgraph/runtime/graph/host"
	"github.com/vexgraph/runtime/graph/metrics"
)

// RunState is the Runner's own lifecycle state, distinct from a node's
// per-invocation Status.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateRunning   RunState = "running"
	StateCompleted RunState = "completed"
	StateCancelled RunState = "cancelled"
	StateFailed    RunState = "failed"
)

// fastForwardRule matches a node by id and type for the fastForwardWhere
// opt-in.
type fastForwardRule func(nodeID, nodeType string) bool

// fiberItem is one queued unit of work: a node id together with the entity
// id it should execute against.
type fiberItem struct {
	NodeID   string
	EntityID string
}

// fiber is a logical execution lane: a FIFO queue of fiberItems processed
// one at a time. Concretely a goroutine; mutual exclusion against every
// other fiber in the same run is provided by Runner.mu, which a fiber holds
// for the whole of its "running" portion and releases only at an explicit
// suspension point (a waitFor block, or a node body that itself chooses to
// suspend, e.g. Delay). See DESIGN.md for the rationale.
type fiber struct {
	queue []fiberItem
	done  chan struct{}
}

func (f *fiber) push(item fiberItem) {
	f.queue = append(f.queue, item)
}

func (f *fiber) pop() (fiberItem, bool) {
	if len(f.queue) == 0 {
		return fiberItem{}, false
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	return item, true
}

// Runner executes one HydratedGraph to completion, implementing a
// scheduling model with sticky terminal states: idle -> running ->
// {completed, cancelled, failed}.
type Runner struct {
	graph         *HydratedGraph
	defaultEntity string
	adapter       host.Adapter
	library       host.GraphLibrary
	services      host.Services
	emitter       emit.Emitter
	metrics       *metrics.RunnerMetrics
	runID         string

	signal *Signal
	scope  *Scope
	board  *Blackboard

	mu               sync.Mutex
	state            RunState
	failed           bool
	failureErr       error
	anyFailureStatus bool
	liveFibers       int
	completionCounts map[string]int
	waiters          map[string][]*waiter
	fastForwardNodes map[string]bool
	fastForwardRules []fastForwardRule

	runDone chan struct{}
	handle  *Handle
}

// NewRunner builds a Runner for hydrated against the given options.
// defaultEntity is used for any root whose node has no EntityID of its own.
func NewRunner(hydrated *HydratedGraph, defaultEntity string, opts ...Option) *Runner {
	r := &Runner{
		graph:            hydrated,
		defaultEntity:    defaultEntity,
		emitter:          emit.NewNullEmitter(),
		scope:            NewScope(),
		board:            NewBlackboard(),
		state:            StateIdle,
		completionCounts: make(map[string]int),
		waiters:          make(map[string][]*waiter),
		fastForwardNodes: make(map[string]bool),
		runDone:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.signal = NewSignal(r.emitter, r.runID)
	r.handle = &Handle{runner: r}
	return r
}

// Run starts the scheduler if the Runner is idle; otherwise it is a no-op
// that returns the handle of the run already in progress.
func (r *Runner) Run(ctx context.Context) *Handle {
	r.mu.Lock()
	if r.state != StateIdle {
		h := r.handle
		r.mu.Unlock()
		return h
	}
	r.state = StateRunning
	roots := append([]string(nil), r.graph.Roots...)
	r.mu.Unlock()

	r.emit("run_started", "", map[string]any{"roots": roots})

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				r.signal.Cancel("context cancelled")
			case <-r.runDone:
			}
		}()
	}

	if len(roots) == 0 {
		r.finishWithState(StateCompleted)
		return r.handle
	}

	for _, rootID := range roots {
		entityID := r.defaultEntity
		if hn, ok := r.graph.Nodes[rootID]; ok && hn.EntityID != "" {
			entityID = hn.EntityID
		}
		r.spawnFiber(fiberItem{NodeID: rootID, EntityID: entityID})
	}

	return r.handle
}

// spawnFiber registers a new fiber rooted at item and launches its loop in
// its own goroutine, for both run startup and parallel transition forking.
func (r *Runner) spawnFiber(item fiberItem) *fiber {
	f := &fiber{done: make(chan struct{})}
	f.push(item)

	r.mu.Lock()
	r.liveFibers++
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.FiberSpawned()
	}
	r.emit("fiber_spawn", item.NodeID, nil)

	go r.runFiber(f)
	return f
}

// runFiber drains f's queue one item at a time, holding r.mu for the
// entirety of each iteration except the explicit suspension points.
func (r *Runner) runFiber(f *fiber) {
	r.mu.Lock()
	for {
		if r.signal.Cancelled() {
			break
		}
		item, ok := f.pop()
		if !ok {
			break
		}
		if !r.runStep(f, item) {
			break
		}
	}
	r.mu.Unlock()

	close(f.done)
	r.emit("fiber_done", "", nil)
	r.fiberSettled()
}

// runStep executes one queue item to completion (build inputs, invoke,
// apply outputs, route transitions, mark completed). Returns false if the
// fiber should stop pulling further work (cancellation observed mid-step).
// Caller must hold r.mu on entry; runStep preserves that invariant on
// return, releasing and reacquiring internally around suspension points.
func (r *Runner) runStep(f *fiber, item fiberItem) bool {
	hn, ok := r.graph.Nodes[item.NodeID]
	if !ok {
		return false
	}

	inputs := r.graph.BuildInputs(item.NodeID, r.scope)
	ctx := &ExecContext{
		NodeID:     item.NodeID,
		EntityID:   item.EntityID,
		Adapter:    r.adapter,
		Scope:      r.scope,
		Blackboard: r.board,
		Signal:     r.signal,
		Inputs:     inputs,
		Library:    r.library,
		Services:   r.services,
		RunID:      r.runID,
		yield:      r.mu.Unlock,
		resume:     r.mu.Lock,
	}

	fastForward := r.shouldFastForwardLocked(item.NodeID, hn.Type)
	r.emit("node_dispatch", item.NodeID, map[string]any{"fast_forward": fastForward})
	if r.metrics != nil {
		r.metrics.NodeDispatched(hn.Type)
	}

	start := time.Now()
	var result Result
	var err error
	if fastForward {
		result, err = hn.Instance.OnFastForward(ctx)
	} else {
		result, err = hn.Instance.Execute(ctx)
	}
	if r.metrics != nil {
		r.metrics.NodeCompleted(hn.Type, string(result.Status), time.Since(start))
	}

	if err != nil {
		r.markNodeCompletedLocked(item.NodeID)
		r.failLocked(item.NodeID, err)
		return false
	}

	if result.Status == StatusFailure {
		r.anyFailureStatus = true
	}

	if len(result.WaitFor) > 0 {
		if r.metrics != nil {
			r.metrics.WaitEntered(hn.Type)
		}
		r.emit("wait_begin", item.NodeID, map[string]any{"targets": result.WaitFor})
		waitErr := r.waitForLocked(item.NodeID, result.WaitFor, result.WaitForNext)
		if waitErr != nil {
			r.markNodeCompletedLocked(item.NodeID)
			r.failLocked(item.NodeID, waitErr)
			return false
		}
		r.emit("wait_resolved", item.NodeID, map[string]any{"targets": result.WaitFor})
		if r.signal.Cancelled() {
			r.markNodeCompletedLocked(item.NodeID)
			return false
		}
	}

	for pinID, value := range result.Outputs {
		r.scope.Set(item.NodeID, pinID, value)
	}

	r.routeTransitionsLocked(f, item, hn, result)

	r.markNodeCompletedLocked(item.NodeID)
	r.emit("node_complete", item.NodeID, map[string]any{"status": string(result.Status)})

	return true
}

// waitForLocked blocks the calling goroutine until every target in targets
// satisfies its wait condition, or the signal cancels. Releases and
// reacquires r.mu around each suspension. Returns a
// *RunError wrapping ErrUnknownWaitTarget if a target id is unknown.
func (r *Runner) waitForLocked(nodeID string, targets []string, waitForNext bool) error {
	for _, target := range targets {
		if _, ok := r.graph.Nodes[target]; !ok {
			return &RunError{Code: "unknown_wait_target", Message: "unknown wait target node id " + target, NodeID: nodeID, Cause: ErrUnknownWaitTarget}
		}
		ch := r.registerWaiterLocked(target, waitForNext)
		if ch == nil {
			continue
		}
		r.mu.Unlock()
		select {
		case <-ch:
		case <-r.signal.Done():
		}
		r.mu.Lock()
		if r.signal.Cancelled() {
			return nil
		}
	}
	return nil
}

// routeTransitionsLocked builds the effective transition list and routes
// each target: sequential targets are prepended (in order) to f's own
// queue; parallel targets spawn new fibers, optionally awaited before this
// fiber continues.
func (r *Runner) routeTransitionsLocked(f *fiber, item fiberItem, hn *HydratedNode, result Result) {
	transitions := result.Transitions
	if len(transitions) == 0 && hn.Definition.DefaultOutput != "" {
		transitions = []Transition{{PinID: hn.Definition.DefaultOutput, Strategy: Sequential}}
	}

	var sequentialItems []fiberItem
	var awaited []*fiber

	for _, t := range transitions {
		strategy := t.Strategy
		if strategy == "" {
			if pin, ok := hn.Definition.Pin(t.PinID); ok && pin.Strategy != "" {
				strategy = pin.Strategy
			} else {
				strategy = Sequential
			}
		}

		for _, targetID := range r.graph.FlowTargets(item.NodeID, t.PinID) {
			entityID := item.EntityID
			if target, ok := r.graph.Nodes[targetID]; ok && target.EntityID != "" {
				entityID = target.EntityID
			}
			targetItem := fiberItem{NodeID: targetID, EntityID: entityID}

			switch strategy {
			case Parallel:
				child := r.spawnFiberUnlocked(targetItem)
				if t.awaits() {
					awaited = append(awaited, child)
				}
			default:
				sequentialItems = append(sequentialItems, targetItem)
			}
		}
	}

	if len(sequentialItems) > 0 {
		f.queue = append(sequentialItems, f.queue...)
	}

	for _, child := range awaited {
		r.mu.Unlock()
		select {
		case <-child.done:
		case <-r.signal.Done():
		}
		r.mu.Lock()
	}
}

// spawnFiberUnlocked spawns a fiber from within a step already holding
// r.mu: it performs the bookkeeping inline rather than through spawnFiber,
// which would deadlock reacquiring the same mutex from the spawning
// goroutine before releasing it.
func (r *Runner) spawnFiberUnlocked(item fiberItem) *fiber {
	f := &fiber{done: make(chan struct{})}
	f.push(item)
	r.liveFibers++
	if r.metrics != nil {
		r.metrics.FiberSpawned()
	}
	r.emit("fiber_spawn", item.NodeID, nil)
	go r.runFiber(f)
	return f
}

// failLocked marks the run failed and cancels the signal, the terminal
// state when a fiber's body returns an error. Cancel is invoked without
// holding r.mu, since Signal guards its own state with an independent
// mutex and may invoke subscribers synchronously.
func (r *Runner) failLocked(nodeID string, err error) {
	r.failed = true
	if r.failureErr == nil {
		r.failureErr = &RunError{Message: err.Error(), NodeID: nodeID, Cause: err}
	}
	r.emit("node_error", nodeID, map[string]any{"error": err.Error()})
	r.mu.Unlock()
	r.signal.Cancel("node error: " + err.Error())
	r.mu.Lock()
}

// shouldFastForwardLocked reports whether nodeID/nodeType matches either
// fast-forward opt-in.
func (r *Runner) shouldFastForwardLocked(nodeID, nodeType string) bool {
	if r.fastForwardNodes[nodeID] {
		return true
	}
	for _, rule := range r.fastForwardRules {
		if rule(nodeID, nodeType) {
			return true
		}
	}
	return false
}

// fiberSettled decrements the live fiber count and finalizes the run once
// the last fiber has drained.
func (r *Runner) fiberSettled() {
	r.mu.Lock()
	r.liveFibers--
	remaining := r.liveFibers
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.FiberDone()
	}
	if remaining == 0 {
		r.finish()
	}
}

// finish computes the terminal state and resolves the run's completion
// signal exactly once.
func (r *Runner) finish() {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	var final RunState
	switch {
	case r.failed:
		final = StateFailed
	case r.signal.Cancelled():
		final = StateCancelled
	default:
		final = StateCompleted
	}
	r.state = final
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RunFinished(string(final))
	}
	r.emit("run_completed", "", map[string]any{"state": string(final)})
	close(r.runDone)
}

// finishWithState is used for the zero-roots startup shortcut and by cancel
// when no fiber is live.
func (r *Runner) finishWithState(state RunState) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.RunFinished(string(state))
	}
	r.emit("run_completed", "", map[string]any{"state": string(state)})
	close(r.runDone)
}

func (r *Runner) emit(msg, nodeID string, meta map[string]any) {
	if r.emitter == nil {
		return
	}
	r.emitter.Emit(emit.Event{RunID: r.runID, NodeID: nodeID, Msg: msg, Meta: meta})
}

// Status returns the Runner's current lifecycle state.
func (r *Runner) Status() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ScopeSnapshot returns the flat "nodeId:pinId" -> value snapshot.
func (r *Runner) ScopeSnapshot() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scope.Snapshot()
}

// cancel idempotently latches the signal. If zero fibers are live, the
// runner transitions directly to cancelled.
func (r *Runner) cancel(reason string) {
	r.signal.Cancel(reason)
	r.mu.Lock()
	live := r.liveFibers
	running := r.state == StateRunning
	r.mu.Unlock()
	if running && live == 0 {
		r.finishWithState(StateCancelled)
	}
}

func (r *Runner) fastForwardNode(id string) {
	r.mu.Lock()
	r.fastForwardNodes[id] = true
	r.mu.Unlock()
}

func (r *Runner) fastForwardWhere(rule fastForwardRule) {
	r.mu.Lock()
	r.fastForwardRules = append(r.fastForwardRules, rule)
	r.mu.Unlock()
}
