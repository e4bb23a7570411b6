package linearmap

import "iter"

// View is the read side shared by Map and Borrowed.
type View[K, V any] interface {
	Len() int
	Get(key K) (V, bool)
	GetFunc(match func(K) bool) (V, bool)
	GetMutFunc(match func(K) bool) *V
	ContainsKey(key K) bool
	All() iter.Seq2[K, V]
	AsSlice() []Pair[K, V]
}

var (
	_ View[int, int] = (*Map[int, int])(nil)
	_ View[int, int] = (*Borrowed[int, int])(nil)
)

// GetAs looks up a value with a query of a type other than the key type, for example a string for
// a map keyed by a named string type, or a []byte for string keys.
//
// match must agree with the map's own key equality: match(q, k) has to be true exactly when q
// stands for a key equal to k.
func GetAs[K, V, Q any](m View[K, V], q Q, match func(q Q, key K) bool) (V, bool) {
	return m.GetFunc(func(key K) bool { return match(q, key) })
}

// GetMutAs is the GetMut counterpart of GetAs.
func GetMutAs[K, V, Q any](m View[K, V], q Q, match func(q Q, key K) bool) *V {
	return m.GetMutFunc(func(key K) bool { return match(q, key) })
}

// ContainsKeyAs is the ContainsKey counterpart of GetAs.
func ContainsKeyAs[K, V, Q any](m View[K, V], q Q, match func(q Q, key K) bool) bool {
	_, ok := m.GetFunc(func(key K) bool { return match(q, key) })
	return ok
}

// RemoveAs is the Remove counterpart of GetAs.
func RemoveAs[K, V, Q any](m *Map[K, V], q Q, match func(q Q, key K) bool) (V, bool) {
	_, v, ok := m.RemoveFunc(func(key K) bool { return match(q, key) })
	return v, ok
}

// Equal reports whether a and b hold the same keys with equal values. Storage order is ignored.
func Equal[K any, V comparable](a, b View[K, V]) bool {
	return EqualFunc(a, b, func(x, y V) bool { return x == y })
}

// EqualFunc is like Equal but compares values with eq.
//
// Keys of a are looked up in b with b's key equality.
func EqualFunc[K, V1, V2 any](a View[K, V1], b View[K, V2], eq func(V1, V2) bool) bool {
	if a.Len() != b.Len() {
		return false
	}

	for _, p := range a.AsSlice() {
		v, ok := b.Get(p.Key)
		if !ok || !eq(p.Value, v) {
			return false
		}
	}
	return true
}
