// Package linearmap provides a map backed by a single slice of key-value pairs that is searched
// linearly.
//
// Every lookup, insertion and removal scans the slice, so all of them run in O(n). For a handful
// of entries this beats a hash table or a tree: there is no hashing, no bucket array and no
// pointer chasing, and the whole map is one contiguous allocation. It also means keys only need an
// equality relation. They do not have to be hashable or ordered.
//
// The order of the pairs in storage is insertion order until something is removed. Removal moves
// the last pair into the vacated slot, so after a removal the order is arbitrary.
//
// It is a logic error to modify a key, through a pointer or shared state, in a way that changes
// its equality while it is in the map.
//
// A Map is not safe for concurrent use. Views that can write into the storage (entry handles and
// mutable iterators) borrow the map exclusively until they are ended; using the map's mutating
// methods while such a view is alive panics.
package linearmap

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"

	"github.com/scusemua/linear-map/common/internal/exclusive"
)

// Map is a map that stores its pairs in a slice and finds them by comparing keys one by one.
//
// The zero value is an empty map ready to use. It compares keys with == on their interface values,
// which panics at runtime for keys whose dynamic type is not comparable; use NewFunc or NewEqualer
// for such keys.
//
// A Map must not be copied after first use.
type Map[K, V any] struct {
	storage []Pair[K, V]
	eq      func(a, b K) bool
	guard   exclusive.Guard
}

// New creates an empty map whose keys are compared with ==. It does not allocate.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{eq: equalComparable[K]}
}

// WithCapacity creates an empty map with room for at least capacity pairs.
func WithCapacity[K comparable, V any](capacity int) *Map[K, V] {
	return &Map[K, V]{
		storage: make([]Pair[K, V], 0, capacity),
		eq:      equalComparable[K],
	}
}

// NewFunc creates an empty map whose keys are compared with eq.
//
// eq must be an equivalence relation.
func NewFunc[K, V any](eq func(a, b K) bool) *Map[K, V] {
	return &Map[K, V]{eq: eq}
}

// WithCapacityFunc is like NewFunc but reserves room for at least capacity pairs.
func WithCapacityFunc[K, V any](capacity int, eq func(a, b K) bool) *Map[K, V] {
	return &Map[K, V]{
		storage: make([]Pair[K, V], 0, capacity),
		eq:      eq,
	}
}

// NewEqualer creates an empty map whose keys are compared with their Equal method.
func NewEqualer[K Equaler[K], V any]() *Map[K, V] {
	return &Map[K, V]{eq: equalMethod[K]}
}

// WithCapacityEqualer is like NewEqualer but reserves room for at least capacity pairs.
func WithCapacityEqualer[K Equaler[K], V any](capacity int) *Map[K, V] {
	return &Map[K, V]{
		storage: make([]Pair[K, V], 0, capacity),
		eq:      equalMethod[K],
	}
}

// Of creates a map holding the given pairs with a capacity of exactly len(pairs).
//
// Pairs are inserted in order, so when two pairs have equal keys the later value wins.
func Of[K comparable, V any](pairs ...Pair[K, V]) *Map[K, V] {
	return OfFunc(equalComparable[K], pairs...)
}

// OfFunc is like Of but compares keys with eq.
func OfFunc[K, V any](eq func(a, b K) bool, pairs ...Pair[K, V]) *Map[K, V] {
	m := WithCapacityFunc[K, V](len(pairs), eq)
	for _, p := range pairs {
		m.Insert(p.Key, p.Value)
	}
	return m
}

// Collect creates a map from the key-value pairs produced by seq, in order. Later values replace
// earlier ones for equal keys.
func Collect[K comparable, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	m := New[K, V]()
	m.Extend(seq)
	return m
}

// FromPairs adopts pairs as the storage of a new map without copying it.
//
// The keys are not checked: the caller guarantees that no two of them are equal. The map owns the
// slice afterwards and the caller must not use it again. Use Borrow to check a slice you keep.
func FromPairs[K comparable, V any](pairs []Pair[K, V]) *Map[K, V] {
	return &Map[K, V]{storage: pairs, eq: equalComparable[K]}
}

// FromPairsFunc is like FromPairs but compares keys with eq.
func FromPairsFunc[K, V any](pairs []Pair[K, V], eq func(a, b K) bool) *Map[K, V] {
	return &Map[K, V]{storage: pairs, eq: eq}
}

func (m *Map[K, V]) equal() func(a, b K) bool {
	if m.eq == nil {
		return equalDynamic[K]
	}
	return m.eq
}

func (m *Map[K, V]) index(key K) int {
	return indexOf(m.storage, key, m.equal())
}

func (m *Map[K, V]) slice() []Pair[K, V] {
	return m.storage
}

func (m *Map[K, V]) lock() *exclusive.Guard {
	return &m.guard
}

// Cap returns the number of pairs the map can hold without reallocating.
func (m *Map[K, V]) Cap() int {
	return cap(m.storage)
}

// Reserve makes room for at least additional more pairs. When the storage has to grow it at least
// doubles, so repeated calls stay amortized O(1) per pair.
//
// Reserve panics if additional is negative or if the resulting capacity overflows an int.
func (m *Map[K, V]) Reserve(additional int) {
	m.guard.Check("Reserve")

	required := m.required(additional)
	if required <= cap(m.storage) {
		return
	}

	newCap := required
	if c := cap(m.storage); c <= math.MaxInt/2 && 2*c > newCap {
		newCap = 2 * c
	}
	m.realloc(newCap)
}

// ReserveExact makes room for at least additional more pairs without over-allocating.
//
// Prefer Reserve if more insertions are expected afterwards. ReserveExact panics under the same
// conditions as Reserve.
func (m *Map[K, V]) ReserveExact(additional int) {
	m.guard.Check("ReserveExact")

	required := m.required(additional)
	if required <= cap(m.storage) {
		return
	}
	m.realloc(required)
}

// ShrinkToFit releases unused capacity. The resulting capacity is never smaller than Len.
func (m *Map[K, V]) ShrinkToFit() {
	m.guard.Check("ShrinkToFit")

	if cap(m.storage) == len(m.storage) {
		return
	}
	if len(m.storage) == 0 {
		m.storage = nil
		return
	}
	m.realloc(len(m.storage))
}

func (m *Map[K, V]) required(additional int) int {
	if additional < 0 {
		panic(fmt.Sprintf("linearmap: negative capacity increase %d", additional))
	}
	if additional > math.MaxInt-len(m.storage) {
		panic("linearmap: capacity overflow")
	}
	return len(m.storage) + additional
}

func (m *Map[K, V]) realloc(capacity int) {
	storage := make([]Pair[K, V], len(m.storage), capacity)
	copy(storage, m.storage)
	m.storage = storage
}

// Len returns the number of pairs in the map.
func (m *Map[K, V]) Len() int {
	return len(m.storage)
}

// IsEmpty returns true if the map holds no pairs.
func (m *Map[K, V]) IsEmpty() bool {
	return len(m.storage) == 0
}

// Clear removes every pair. The allocated storage is kept for reuse.
func (m *Map[K, V]) Clear() {
	m.guard.Check("Clear")

	clear(m.storage)
	m.storage = m.storage[:0]
}

// Retain keeps only the pairs for which keep returns true.
//
// Pairs are visited once each, in storage order, and the kept ones keep their relative order. A
// rejected pair is released as soon as keep returns. keep may modify the value through the pointer
// it is given, but it must not touch the map itself.
func (m *Map[K, V]) Retain(keep func(key K, value *V) bool) {
	m.guard.Acquire("Retain")
	defer m.guard.Release()

	var zero Pair[K, V]
	kept := 0
	for i := range m.storage {
		if !keep(m.storage[i].Key, &m.storage[i].Value) {
			m.storage[i] = zero
			continue
		}
		if kept != i {
			m.storage[kept] = m.storage[i]
		}
		kept++
	}

	clear(m.storage[kept:])
	m.storage = m.storage[:kept]
}

// Get returns the value stored under key. The boolean is false if there is no such key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i := m.index(key); i >= 0 {
		return m.storage[i].Value, true
	}

	var zero V
	return zero, false
}

// GetKeyValue returns the stored key that is equal to key, along with its value.
func (m *Map[K, V]) GetKeyValue(key K) (K, V, bool) {
	if i := m.index(key); i >= 0 {
		return m.storage[i].Key, m.storage[i].Value, true
	}

	var (
		zeroKey   K
		zeroValue V
	)
	return zeroKey, zeroValue, false
}

// GetMut returns a pointer to the value stored under key, or nil. The pointer is valid until the
// map is next modified.
func (m *Map[K, V]) GetMut(key K) *V {
	m.guard.Check("GetMut")

	if i := m.index(key); i >= 0 {
		return &m.storage[i].Value
	}
	return nil
}

// GetFunc returns the value of the first pair whose key satisfies match.
func (m *Map[K, V]) GetFunc(match func(K) bool) (V, bool) {
	if i := indexFunc(m.storage, match); i >= 0 {
		return m.storage[i].Value, true
	}

	var zero V
	return zero, false
}

// GetMutFunc returns a pointer to the value of the first pair whose key satisfies match, or nil.
func (m *Map[K, V]) GetMutFunc(match func(K) bool) *V {
	m.guard.Check("GetMutFunc")

	if i := indexFunc(m.storage, match); i >= 0 {
		return &m.storage[i].Value
	}
	return nil
}

// ContainsKey returns true if the map holds a key equal to key.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.index(key) >= 0
}

// ContainsKeyFunc returns true if some key satisfies match.
func (m *Map[K, V]) ContainsKeyFunc(match func(K) bool) bool {
	return indexFunc(m.storage, match) >= 0
}

// MustGet returns the value stored under key. It is meant for call sites that already know the key
// is present, and it panics if it is not.
func (m *Map[K, V]) MustGet(key K) V {
	i := m.index(key)
	if i < 0 {
		panicKeyNotFound(key)
	}
	return m.storage[i].Value
}

// Insert stores value under key.
//
// If the map already held an equal key, its value is replaced and the previous value is returned
// with true. The stored key itself is left alone, which matters for keys that are equal without
// being identical. Otherwise the pair is appended and Insert returns the zero value and false.
//
// Insert scans the storage once.
func (m *Map[K, V]) Insert(key K, value V) (V, bool) {
	m.guard.Check("Insert")

	if i := m.index(key); i >= 0 {
		old := m.storage[i].Value
		m.storage[i].Value = value
		return old, true
	}

	m.push(key, value)
	var zero V
	return zero, false
}

// Remove deletes the pair stored under key and returns its value.
//
// The last pair of the storage is moved into the removed pair's slot. This keeps removal O(1)
// after the scan, at the cost of not preserving order.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	_, value, ok := m.RemoveEntry(key)
	return value, ok
}

// RemoveEntry is like Remove but also returns the stored key.
func (m *Map[K, V]) RemoveEntry(key K) (K, V, bool) {
	m.guard.Check("Remove")

	if i := m.index(key); i >= 0 {
		p := m.swapRemove(i)
		return p.Key, p.Value, true
	}

	var (
		zeroKey   K
		zeroValue V
	)
	return zeroKey, zeroValue, false
}

// RemoveFunc deletes the first pair whose key satisfies match. Like Remove, it does not preserve
// order.
func (m *Map[K, V]) RemoveFunc(match func(K) bool) (K, V, bool) {
	m.guard.Check("RemoveFunc")

	if i := indexFunc(m.storage, match); i >= 0 {
		p := m.swapRemove(i)
		return p.Key, p.Value, true
	}

	var (
		zeroKey   K
		zeroValue V
	)
	return zeroKey, zeroValue, false
}

// Extend inserts every pair produced by seq, in order.
func (m *Map[K, V]) Extend(seq iter.Seq2[K, V]) {
	m.guard.Check("Extend")

	for k, v := range seq {
		m.Insert(k, v)
	}
}

func (m *Map[K, V]) push(key K, value V) *V {
	m.storage = append(m.storage, Pair[K, V]{Key: key, Value: value})
	return &m.storage[len(m.storage)-1].Value
}

func (m *Map[K, V]) swapRemove(i int) Pair[K, V] {
	last := len(m.storage) - 1
	p := m.storage[i]
	m.storage[i] = m.storage[last]
	m.storage[last] = Pair[K, V]{}
	m.storage = m.storage[:last]
	return p
}

// AsSlice returns the pairs in storage order. The slice aliases the map's storage, so it must not
// be modified (values may be, keys must not be), and it is only valid until the map is next
// modified.
func (m *Map[K, V]) AsSlice() []Pair[K, V] {
	return m.storage[:len(m.storage):len(m.storage)]
}

// IntoPairs takes the storage out of the map without copying it. The map is empty afterwards.
func (m *Map[K, V]) IntoPairs() []Pair[K, V] {
	m.guard.Check("IntoPairs")

	pairs := m.storage
	m.storage = nil
	return pairs
}

// Clone returns a shallow copy of the map that compares keys the same way.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{
		storage: slices.Clone(m.storage),
		eq:      m.eq,
	}
}

// String formats the map as {k1: v1, k2: v2} in storage order.
func (m *Map[K, V]) String() string {
	return formatPairs(m.storage)
}

func formatPairs[K, V any](pairs []Pair[K, V]) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", p.Key, p.Value)
	}
	b.WriteByte('}')
	return b.String()
}
