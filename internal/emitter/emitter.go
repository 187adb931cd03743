// Package emitter provides a minimal listener list with handle-based
// cancellation, used for the linkifier's event fan-out.
package emitter

import "sync"

// Emitter dispatches values of type T to registered listeners in
// registration order. Listeners are invoked outside the emitter's lock
// so they may register or cancel listeners reentrantly.
type Emitter[T any] struct {
	mu        sync.Mutex
	listeners []*Listener[T]
}

// Listener is a handle to a registered callback.
type Listener[T any] struct {
	emitter   *Emitter[T]
	fn        func(T)
	cancelled bool
}

// New creates an empty emitter.
func New[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

// Listen registers fn and returns a handle that removes it.
func (e *Emitter[T]) Listen(fn func(T)) *Listener[T] {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := &Listener[T]{emitter: e, fn: fn}
	e.listeners = append(e.listeners, l)
	return l
}

// Emit delivers v to every listener registered at the time of the call.
func (e *Emitter[T]) Emit(v T) {
	e.mu.Lock()
	snapshot := make([]*Listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.emitter.mu.Lock()
		cancelled := l.cancelled
		l.emitter.mu.Unlock()
		if !cancelled {
			l.fn(v)
		}
	}
}

// Len returns the number of registered listeners.
func (e *Emitter[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Cancel removes the listener. Cancelling twice is a no-op.
func (l *Listener[T]) Cancel() {
	if l == nil || l.emitter == nil {
		return
	}
	e := l.emitter
	e.mu.Lock()
	defer e.mu.Unlock()

	if l.cancelled {
		return
	}
	l.cancelled = true
	for i, cur := range e.listeners {
		if cur == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			break
		}
	}
}
