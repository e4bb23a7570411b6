package hashmap

import (
	"slices"
	"sync"

	"github.com/scusemua/linear-map/common/linearmap"
)

// LinearMap exposes a linearmap.Map through HashMap. Unlike the bare map, it is safe for
// concurrent use: every call holds a read-write mutex.
type LinearMap[K comparable, V comparable] struct {
	mu      sync.RWMutex
	backend *linearmap.Map[K, V]
}

// NewLinearMap creates an empty LinearMap with room for capacity pairs.
func NewLinearMap[K comparable, V comparable](capacity int) *LinearMap[K, V] {
	return &LinearMap[K, V]{
		backend: linearmap.WithCapacity[K, V](capacity),
	}
}

func (m *LinearMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backend.Remove(key)
}

func (m *LinearMap[K, V]) Load(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.backend.Get(key)
}

func (m *LinearMap[K, V]) LoadAndDelete(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.backend.Remove(key)
}

func (m *LinearMap[K, V]) LoadOrStore(key K, value V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := true
	stored := m.backend.Entry(key).OrInsertWith(func() V {
		loaded = false
		return value
	})
	return *stored, loaded
}

func (m *LinearMap[K, V]) CompareAndSwap(key K, oldVal V, newVal V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.backend.GetMut(key)
	if current == nil {
		var zero V
		return zero, false
	}
	if *current != oldVal {
		return *current, false
	}

	*current = newVal
	return newVal, true
}

// Range calls cb for a snapshot of the pairs, so cb may modify the map.
func (m *LinearMap[K, V]) Range(cb func(K, V) bool) {
	m.mu.RLock()
	pairs := slices.Clone(m.backend.AsSlice())
	m.mu.RUnlock()

	for _, p := range pairs {
		if !cb(p.Key, p.Value) {
			return
		}
	}
}

func (m *LinearMap[K, V]) Store(key K, val V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backend.Insert(key, val)
}

func (m *LinearMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.backend.Len()
}

// Pairs returns a copy of the pairs in storage order.
func (m *LinearMap[K, V]) Pairs() []linearmap.Pair[K, V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.backend.AsSlice())
}

var _ HashMap[string, int] = (*LinearMap[string, int])(nil)
