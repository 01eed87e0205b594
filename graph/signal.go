package graph

import (
	"sync"

	"github.com/vexgraph/runtime/graph/emit"
)

// SignalEvent is broadcast to Signal subscribers when cancelled or
// fastForward latches.
type SignalEvent struct {
	Cancelled   bool
	FastForward bool
	Reason      string
}

// SignalSubscriber receives SignalEvent notifications. A panic inside a
// subscriber is caught and logged; it must never abort emission to the
// remaining subscribers — an observability backend must not be able to
// disturb the run it's observing.
type SignalSubscriber func(SignalEvent)

// Signal is a broadcast object carrying two monotone, one-shot latches —
// cancelled and fastForward — plus an optional reason and a set of
// subscribers. Setting either flag a second time is a no-op.
type Signal struct {
	mu          sync.Mutex
	cancelled   bool
	fastForward bool
	reason      string
	subs        map[int]SignalSubscriber
	nextSubID   int
	emitter     emit.Emitter
	runID       string

	cancelCh chan struct{}
}

// NewSignal returns a fresh, unlatched Signal. emitter and runID are used
// to emit "signal_cancelled"/"signal_fast_forward" events when a latch is
// set and to log subscriber panics; emitter may be nil.
func NewSignal(emitter emit.Emitter, runID string) *Signal {
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}
	return &Signal{
		subs:     make(map[int]SignalSubscriber),
		emitter:  emitter,
		runID:    runID,
		cancelCh: make(chan struct{}),
	}
}

// Subscribe registers fn for future SignalEvents and returns an unsubscribe
// token honoured by calling the returned func.
func (s *Signal) Subscribe(fn SignalSubscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Cancelled reports whether the cancelled latch has been set.
func (s *Signal) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// FastForwarding reports whether the fastForward latch has been set.
func (s *Signal) FastForwarding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fastForward
}

// Reason returns the reason supplied to whichever latch call set the signal
// first (Cancel or SetFastForward), or "" if neither has fired.
func (s *Signal) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Done returns a channel closed the moment Cancel latches the signal. Select
// on it alongside a waiter's own ready channel to break out of a wait
// promptly.
func (s *Signal) Done() <-chan struct{} {
	return s.cancelCh
}

// Cancel idempotently latches cancelled and broadcasts a SignalEvent. A
// second call is a no-op (even with a different reason).
func (s *Signal) Cancel(reason string) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	if s.reason == "" {
		s.reason = reason
	}
	close(s.cancelCh)
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	s.broadcast(subs, SignalEvent{Cancelled: true, Reason: reason})
}

// SetFastForward idempotently latches fastForward and broadcasts a
// SignalEvent. A second call is a no-op.
func (s *Signal) SetFastForward(reason string) {
	s.mu.Lock()
	if s.fastForward {
		s.mu.Unlock()
		return
	}
	s.fastForward = true
	if s.reason == "" {
		s.reason = reason
	}
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	s.broadcast(subs, SignalEvent{FastForward: true, Reason: reason})
}

func (s *Signal) snapshotSubsLocked() []SignalSubscriber {
	out := make([]SignalSubscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// broadcast emits the latch event to the emitter, then invokes every
// subscriber, catching and logging panics so one misbehaving subscriber
// never aborts emission to the rest nor disturbs the run.
func (s *Signal) broadcast(subs []SignalSubscriber, evt SignalEvent) {
	msg := "signal_cancelled"
	if evt.FastForward {
		msg = "signal_fast_forward"
	}
	s.emitter.Emit(emit.Event{RunID: s.runID, Msg: msg, Meta: map[string]any{"reason": evt.Reason}})
	for _, fn := range subs {
		s.safeInvoke(fn, evt)
	}
}

func (s *Signal) safeInvoke(fn SignalSubscriber, evt SignalEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.emitter.Emit(emit.Event{
				RunID: s.runID,
				Msg:   "signal_subscriber_panic",
				Meta:  map[string]any{"recovered": r},
			})
		}
	}()
	fn(evt)
}
