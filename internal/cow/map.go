// Package cow provides a copy-on-write map for state that is written by one
// goroutine and read by many. Readers never lock: they load an immutable
// snapshot and may iterate it while a writer installs the next one.
package cow

import (
	"sync"
	"sync/atomic"
)

type snapshot[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

// Map is an insertion-ordered copy-on-write map. The zero value is ready to use.
type Map[K comparable, V any] struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[snapshot[K, V]]
}

func (m *Map[K, V]) load() *snapshot[K, V] {
	if s := m.snap.Load(); s != nil {
		return s
	}
	return &snapshot[K, V]{}
}

// Load returns the value stored for k.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.load().vals[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.load().vals[k]
	return ok
}

// Len returns the number of entries in the current snapshot.
func (m *Map[K, V]) Len() int {
	return len(m.load().keys)
}

// Keys returns the keys in insertion order. The slice belongs to an immutable
// snapshot and must not be modified.
func (m *Map[K, V]) Keys() []K {
	return m.load().keys
}

// Store sets k to v. A new key is appended to the iteration order; an
// existing key keeps its position.
func (m *Map[K, V]) Store(k K, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeLocked(k, v)
}

// Update replaces the value for k with fn(old, present) and returns it.
// fn must not call back into m.
func (m *Map[K, V]) Update(k K, fn func(old V, present bool) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.load().vals[k]
	v := fn(cur, ok)
	m.storeLocked(k, v)
	return v
}

func (m *Map[K, V]) storeLocked(k K, v V) {
	old := m.load()
	next := &snapshot[K, V]{
		keys: old.keys,
		vals: make(map[K]V, len(old.vals)+1),
	}
	for key, val := range old.vals {
		next.vals[key] = val
	}
	if _, exists := old.vals[k]; !exists {
		next.keys = make([]K, len(old.keys), len(old.keys)+1)
		copy(next.keys, old.keys)
		next.keys = append(next.keys, k)
	}
	next.vals[k] = v
	m.snap.Store(next)
}

// Delete removes k. It reports whether k was present.
func (m *Map[K, V]) Delete(k K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.load()
	if _, ok := old.vals[k]; !ok {
		return false
	}
	next := &snapshot[K, V]{
		keys: make([]K, 0, len(old.keys)),
		vals: make(map[K]V, len(old.vals)),
	}
	for _, key := range old.keys {
		if key == k {
			continue
		}
		next.keys = append(next.keys, key)
		next.vals[key] = old.vals[key]
	}
	m.snap.Store(next)
	return true
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Store(&snapshot[K, V]{})
}
