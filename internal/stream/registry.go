// Package stream routes live status updates to connected viewers. The
// registry maps a subscription key (a tracking id, or the shared kitchen
// key) to the set of currently connected subscriber channels.
package stream

import (
	"sync"

	"github.com/google/uuid"
)

// KitchenKey is the single implicit group every kitchen display subscribes to.
const KitchenKey = "kitchen"

const defaultBuffer = 16

// Registry fans published updates out to subscribers of a key. Publishing
// never blocks: a subscriber that cannot keep up (or has gone away) is
// dropped from the set, so one broken pipe cannot stall the rest.
type Registry[T any] struct {
	mu     sync.Mutex
	subs   map[string]map[string]chan T
	buffer int
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		subs:   make(map[string]map[string]chan T),
		buffer: defaultBuffer,
	}
}

// Subscribe registers a new subscriber under key and returns its id and
// receive channel. Per-subscriber delivery order matches publish order.
func (r *Registry[T]) Subscribe(key string) (string, <-chan T) {
	id := uuid.NewString()
	ch := make(chan T, r.buffer)

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.subs[key]
	if !ok {
		set = make(map[string]chan T)
		r.subs[key] = set
	}
	set[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and deletes the key's set once empty, so
// abandoned tracking ids do not accumulate.
func (r *Registry[T]) Unsubscribe(key, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(key, id)
}

// Publish delivers update to every subscriber of key. Sends are
// non-blocking, so the lock is held across delivery; that keeps a
// concurrent drop from closing a channel mid-send.
func (r *Registry[T]) Publish(key string, update T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var dropped []string
	for id, ch := range r.subs[key] {
		select {
		case ch <- update:
		default:
			// Subscriber is gone or wedged; heal the set.
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		r.remove(key, id)
	}
}

// Len reports the current subscriber count for key.
func (r *Registry[T]) Len(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[key])
}

// remove must be called with the lock held.
func (r *Registry[T]) remove(key, id string) {
	set, ok := r.subs[key]
	if !ok {
		return
	}
	ch, ok := set[id]
	if !ok {
		return
	}
	delete(set, id)
	close(ch)
	if len(set) == 0 {
		delete(r.subs, key)
	}
}
