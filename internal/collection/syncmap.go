// Package collection provides small generic concurrency-safe containers
// shared across the socketio module. SyncMap backs the Registry and any
// alternative session store, the same role it plays in the teacher
// codebase's transport/server/base.SessionStore.
package collection

import "sync"

// SyncMap is a generic wrapper around sync.Map, giving call sites a typed
// Get/Put/Delete/Range API instead of repeated type assertions.
type SyncMap[K comparable, V any] struct {
	m sync.Map
}

// NewSyncMap creates an empty SyncMap.
func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{}
}

// Get returns the value stored for key, if any.
func (s *SyncMap[K, V]) Get(key K) (V, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Put stores value for key, overwriting any existing entry.
func (s *SyncMap[K, V]) Put(key K, value V) {
	s.m.Store(key, value)
}

// Delete removes key, if present.
func (s *SyncMap[K, V]) Delete(key K) {
	s.m.Delete(key)
}

// Range iterates entries in unspecified order, stopping early if f returns
// false. f must not mutate the map it's ranging over.
func (s *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	s.m.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}

// Len returns the number of entries. O(n).
func (s *SyncMap[K, V]) Len() int {
	n := 0
	s.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
