package emitter

import (
	"sync"
)

// Listener receives the payload of an emitted event
type Listener func(data any)

type subscription struct {
	id       uint64
	listener Listener
}

// Emitter is a synchronous in-process event bus. Listeners run on the
// emitting goroutine, in registration order.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]subscription
	nextId    uint64
}

// New creates an empty emitter
func New() *Emitter {
	return &Emitter{
		listeners: make(map[string][]subscription),
	}
}

// On subscribes listener to event and returns a function that removes it
func (e *Emitter) On(event string, listener Listener) func() {
	e.mu.Lock()
	e.nextId++
	id := e.nextId
	e.listeners[event] = append(e.listeners[event], subscription{id: id, listener: listener})
	e.mu.Unlock()

	return func() { e.off(event, id) }
}

// Off removes every listener of event
func (e *Emitter) Off(event string) {
	e.mu.Lock()
	delete(e.listeners, event)
	e.mu.Unlock()
}

func (e *Emitter) off(event string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.listeners[event]
	for i, sub := range subs {
		if sub.id == id {
			e.listeners[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit calls every listener of event with data. A nil emitter is a no-op.
func (e *Emitter) Emit(event string, data any) {
	if e == nil {
		return
	}

	e.mu.RLock()
	subs := make([]subscription, len(e.listeners[event]))
	copy(subs, e.listeners[event])
	e.mu.RUnlock()

	for _, sub := range subs {
		sub.listener(data)
	}
}

// ListenerCount returns the number of listeners registered for event
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}
