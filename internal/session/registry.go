// Package session implements the process-wide store: one registry per
// entity kind (Graph, Mapping, Instance, Solution), each guarded by its
// own reader-writer lock so inserts/deletes on one registry never block
// reads on another, and a background-friendly TTL reaper.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"gpsnav-vrp/internal/vrperr"
)

type entry[T any] struct {
	value     T
	createdAt time.Time
}

// registry is a multi-reader, single-writer map from opaque UUID to an
// immutable-after-insert entity of type T.
type registry[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{items: make(map[string]entry[T])}
}

// insert assigns a fresh UUID, guaranteed collision-free over the process
// lifetime (practically, via google/uuid's random v4 generation).
func (r *registry[T]) insert(v T) string {
	id := uuid.New().String()
	r.mu.Lock()
	r.items[id] = entry[T]{value: v, createdAt: time.Now()}
	r.mu.Unlock()
	return id
}

func (r *registry[T]) get(id string) (T, error) {
	r.mu.RLock()
	e, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, vrperr.NewNotFound("no such entity: " + id)
	}
	return e.value, nil
}

func (r *registry[T]) delete(id string) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}

func (r *registry[T]) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// reap deletes entries older than now-maxAge and returns how many were
// removed.
func (r *registry[T]) reap(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.items {
		if e.createdAt.Before(cutoff) {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

// filter returns all values matching pred, without holding the lock
// during the caller's use of the results (a defensive copy is returned).
func (r *registry[T]) filter(pred func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []T
	for _, e := range r.items {
		if pred(e.value) {
			out = append(out, e.value)
		}
	}
	return out
}
