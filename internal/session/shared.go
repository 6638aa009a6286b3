// Package session multiplexes many concurrently connected websocket
// clients onto a single shared UCI engine process. Only one client
// conversation is ever "live" with the engine at a time; a new client
// preempts whichever one is currently live by asking it to stop and wait
// for the engine to go idle before handing over ownership.
package session

import (
	"sync"

	"github.com/relayfish/remote-uci/internal/engine"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

// ID identifies a single conversation with the shared engine. IDs are
// monotonically increasing; a connection sends engine commands under a
// given ID from the moment it starts a conversation until it is
// preempted or disconnects.
type ID uint64

// SharedEngine is a single UCI engine process shared by every currently
// connected client. Mirrors a single-threaded engine accepting exactly
// one conversation at a time.
type SharedEngine struct {
	mu      sync.Mutex
	counter atomic.Uint64
	notify  *iox.Pulse

	engine *engine.Supervisor
}

// NewSharedEngine wraps an already-spawned engine supervisor for sharing
// across connections.
func NewSharedEngine(sup *engine.Supervisor) *SharedEngine {
	return &SharedEngine{
		notify: iox.NewPulse(),
		engine: sup,
	}
}

// Current returns the ID of whichever conversation most recently began,
// whether or not it still holds the engine lock.
func (s *SharedEngine) Current() ID {
	return ID(s.counter.Load())
}

// IsCurrent reports whether id is still the most recently begun
// conversation, i.e. no newer connection has tried to take over.
func (s *SharedEngine) IsCurrent(id ID) bool {
	return s.Current() == id
}

// Notify returns a wake-only channel that fires whenever a new
// conversation begins, so a conversation blocked on engine I/O can wake
// up and recheck IsCurrent.
func (s *SharedEngine) Notify() <-chan struct{} {
	return s.notify.Chan()
}

// Begin starts a new conversation: it bumps the session counter, wakes
// up whoever currently holds the engine so they can notice and yield,
// then blocks until the engine is actually free. Callers must call
// Release exactly once when the conversation is done with the engine.
func (s *SharedEngine) Begin() (ID, *engine.Supervisor) {
	id := ID(s.counter.Add(1))
	s.notify.Emit()
	s.mu.Lock()
	return id, s.engine
}

// Release gives up ownership of the engine, allowing the next Begin to
// proceed.
func (s *SharedEngine) Release() {
	s.mu.Unlock()
}
