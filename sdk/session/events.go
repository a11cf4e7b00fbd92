package session

import "sync"

// EventKind tags a session lifecycle event.
type EventKind string

// EventSessionExpired is emitted when a 401 could not be recovered by a token
// refresh. Subscribers typically clear user state and navigate to login.
const EventSessionExpired EventKind = "session-expired"

// Bus is a process-wide fan-out channel for session lifecycle events.
// It decouples the request layer, which detects session death, from the
// consumers that must react to it.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []busListener
}

type busListener struct {
	id uint64
	fn func(EventKind)
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener and returns a function removing exactly that
// registration. The returned function is idempotent; a second call is a no-op.
// Multiple subscriptions by the same consumer are independent.
func (b *Bus) Subscribe(fn func(EventKind)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners = append(b.listeners, busListener{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.listeners {
			if b.listeners[i].id == id {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit invokes every currently registered listener synchronously, in
// registration order. A panicking listener is recovered and skipped so one
// broken subscriber cannot block delivery to the rest, and Emit itself never
// panics.
func (b *Bus) Emit(kind EventKind) {
	b.mu.Lock()
	snapshot := make([]busListener, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.Unlock()

	for _, l := range snapshot {
		invokeListener(l.fn, kind)
	}
}

func invokeListener(fn func(EventKind), kind EventKind) {
	// Listener failures are swallowed: a broken subscriber must not take the
	// request pipeline down with it.
	defer func() { _ = recover() }()
	fn(kind)
}
