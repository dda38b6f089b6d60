// Package session provides the in-memory keyed stores backing multi-step
// game flows (quiz, word chain, tic-tac-toe, pending amount entry).
// Stores are process-local and empty after a restart; each game owns an
// injected instance with its own key type rather than a package-level map.
package session

import "sync"

// ChatMessageKey identifies state pinned to a specific bot message,
// e.g. a tic-tac-toe challenge card or board.
type ChatMessageKey struct {
	ChatID    int64
	MessageID int
}

// Store is a thread-safe map of per-key session values.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewStore creates an empty Store.
func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{entries: make(map[K]V)}
}

// Get returns the value for key and whether it exists.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put stores or replaces the value for key.
func (s *Store[K, V]) Put(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// Delete removes key and reports whether it was present.
func (s *Store[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Take removes and returns the value for key in one step. Used by flows
// that consume their pending state exactly once.
func (s *Store[K, V]) Take(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return v, ok
}

// Len returns the number of live entries.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
