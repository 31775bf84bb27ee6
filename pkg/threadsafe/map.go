package threadsafe

import "sync"

type Map[K comparable, V any] struct {
	inner map[K]V
	mux   *sync.RWMutex
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		inner: make(map[K]V),
		mux:   &sync.RWMutex{},
	}
}

// PutIfAbsent stores value under key unless the key is already taken.
// It reports whether the value was stored.
func (m *Map[K, V]) PutIfAbsent(key K, value V) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.inner[key]; ok {
		return false
	}
	m.inner[key] = value
	return true
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	value, ok := m.inner[key]
	return value, ok
}

func (m *Map[K, V]) Contains(key K) bool {
	m.mux.RLock()
	defer m.mux.RUnlock()
	_, ok := m.inner[key]
	return ok
}

func (m *Map[K, V]) Size() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.inner)
}
