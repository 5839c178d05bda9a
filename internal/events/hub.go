// Package events provides a minimal typed publish/subscribe hub used for
// cross-component notification inside the process.
package events

import "sync"

// Hub fans a value of type T out to all current subscribers. Publish invokes
// subscribers synchronously in unspecified order; subscribers that need to do
// slow work should hand it off to their own goroutine.
type Hub[T any] struct {
	mu   sync.RWMutex
	subs map[int]func(T)
	next int
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn for future publications and returns a function that
// removes the subscription. Cancelling twice is safe.
func (h *Hub[T]) Subscribe(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish delivers v to every current subscriber.
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	fns := make([]func(T), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}
