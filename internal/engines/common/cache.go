package common

import (
	"cmp"
	"slices"
	"sync"
)

// ResultStore is a concurrency-safe map of results written by parallel workers.
type ResultStore[K cmp.Ordered, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewResultStore returns an empty store.
func NewResultStore[K cmp.Ordered, V any]() *ResultStore[K, V] {
	return &ResultStore[K, V]{items: make(map[K]V)}
}

// Set stores v under key, replacing any previous value.
func (s *ResultStore[K, V]) Set(key K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = v
}

// Get returns the value stored under key.
func (s *ResultStore[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Len returns the number of stored results.
func (s *ResultStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Keys returns the stored keys in ascending order.
func (s *ResultStore[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// All returns the stored values ordered by key.
func (s *ResultStore[K, V]) All() []V {
	keys := s.Keys()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.items[k]; ok {
			out = append(out, v)
		}
	}
	return out
}
