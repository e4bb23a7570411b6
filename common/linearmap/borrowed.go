package linearmap

import (
	"iter"

	"github.com/scusemua/linear-map/common/internal/exclusive"
)

// Borrowed gives map semantics to a slice of pairs owned by someone else.
//
// Values may be changed through the view, but it never adds or removes pairs, so the length of the
// slice is fixed for the whole life of the view. The caller keeps the slice and must not change its
// keys while the view is in use.
type Borrowed[K, V any] struct {
	pairs []Pair[K, V]
	eq    func(a, b K) bool
	guard exclusive.Guard
}

// Borrow checks that no two pairs have equal keys and wraps pairs in a view. The check compares
// every pair against every pair before it, so it is O(n^2).
//
// If two keys are equal, Borrow returns a *DuplicateKeyError describing the first conflict found.
func Borrow[K comparable, V any](pairs []Pair[K, V]) (*Borrowed[K, V], error) {
	return BorrowFunc(pairs, equalComparable[K])
}

// BorrowEqualer is like Borrow for keys compared with their Equal method.
func BorrowEqualer[K Equaler[K], V any](pairs []Pair[K, V]) (*Borrowed[K, V], error) {
	return BorrowFunc(pairs, equalMethod[K])
}

// BorrowFunc is like Borrow but compares keys with eq.
func BorrowFunc[K, V any](pairs []Pair[K, V], eq func(a, b K) bool) (*Borrowed[K, V], error) {
	if earlier, later := firstDuplicate(pairs, eq); earlier >= 0 {
		err := &DuplicateKeyError[K]{
			Key:            pairs[earlier].Key,
			Index:          earlier,
			DuplicateIndex: later,
		}
		getLogger().Debug("Refusing to borrow %d pair(s): %v", len(pairs), err)
		return nil, err
	}
	return &Borrowed[K, V]{pairs: pairs, eq: eq}, nil
}

// BorrowUnchecked wraps pairs in a view without looking for duplicate keys.
//
// The caller guarantees that the keys are distinct. If they are not, lookups return the first
// match and the view is otherwise well behaved, but it no longer behaves like a map.
func BorrowUnchecked[K comparable, V any](pairs []Pair[K, V]) *Borrowed[K, V] {
	return &Borrowed[K, V]{pairs: pairs, eq: equalComparable[K]}
}

// BorrowUncheckedFunc is like BorrowUnchecked but compares keys with eq.
func BorrowUncheckedFunc[K, V any](pairs []Pair[K, V], eq func(a, b K) bool) *Borrowed[K, V] {
	return &Borrowed[K, V]{pairs: pairs, eq: eq}
}

func (b *Borrowed[K, V]) index(key K) int {
	eq := b.eq
	if eq == nil {
		eq = equalDynamic[K]
	}
	return indexOf(b.pairs, key, eq)
}

func (b *Borrowed[K, V]) slice() []Pair[K, V] {
	return b.pairs
}

func (b *Borrowed[K, V]) lock() *exclusive.Guard {
	return &b.guard
}

// Len returns the number of pairs in the view.
func (b *Borrowed[K, V]) Len() int {
	return len(b.pairs)
}

// IsEmpty returns true if the view holds no pairs.
func (b *Borrowed[K, V]) IsEmpty() bool {
	return len(b.pairs) == 0
}

// Get returns the value stored under key.
func (b *Borrowed[K, V]) Get(key K) (V, bool) {
	if i := b.index(key); i >= 0 {
		return b.pairs[i].Value, true
	}

	var zero V
	return zero, false
}

// GetKeyValue returns the stored key that is equal to key, along with its value.
func (b *Borrowed[K, V]) GetKeyValue(key K) (K, V, bool) {
	if i := b.index(key); i >= 0 {
		return b.pairs[i].Key, b.pairs[i].Value, true
	}

	var (
		zeroKey   K
		zeroValue V
	)
	return zeroKey, zeroValue, false
}

// GetMut returns a pointer into the borrowed slice for the value stored under key, or nil.
func (b *Borrowed[K, V]) GetMut(key K) *V {
	b.guard.Check("GetMut")

	if i := b.index(key); i >= 0 {
		return &b.pairs[i].Value
	}
	return nil
}

// GetFunc returns the value of the first pair whose key satisfies match.
func (b *Borrowed[K, V]) GetFunc(match func(K) bool) (V, bool) {
	if i := indexFunc(b.pairs, match); i >= 0 {
		return b.pairs[i].Value, true
	}

	var zero V
	return zero, false
}

// GetMutFunc returns a pointer to the value of the first pair whose key satisfies match, or nil.
func (b *Borrowed[K, V]) GetMutFunc(match func(K) bool) *V {
	b.guard.Check("GetMutFunc")

	if i := indexFunc(b.pairs, match); i >= 0 {
		return &b.pairs[i].Value
	}
	return nil
}

// ContainsKey returns true if the view holds a key equal to key.
func (b *Borrowed[K, V]) ContainsKey(key K) bool {
	return b.index(key) >= 0
}

// ContainsKeyFunc returns true if some key satisfies match.
func (b *Borrowed[K, V]) ContainsKeyFunc(match func(K) bool) bool {
	return indexFunc(b.pairs, match) >= 0
}

// MustGet returns the value stored under key and panics if there is none.
func (b *Borrowed[K, V]) MustGet(key K) V {
	i := b.index(key)
	if i < 0 {
		panicKeyNotFound(key)
	}
	return b.pairs[i].Value
}

// Iter returns a cursor over the pairs. GetMut and IterMut panic until the cursor is exhausted
// or closed.
func (b *Borrowed[K, V]) Iter() *Iter[K, V] {
	return newIter[K, V](b)
}

// IterMut returns a mutable cursor over the pairs. The view is exclusively borrowed until the
// cursor is exhausted or closed.
func (b *Borrowed[K, V]) IterMut() *IterMut[K, V] {
	return newIterMut[K, V](b)
}

// All returns an iterator over the pairs in slice order.
func (b *Borrowed[K, V]) All() iter.Seq2[K, V] {
	return seqAll[K, V](b)
}

// Backward returns an iterator over the pairs in reverse slice order.
func (b *Borrowed[K, V]) Backward() iter.Seq2[K, V] {
	return seqBackward[K, V](b)
}

// Keys returns an iterator over the keys.
func (b *Borrowed[K, V]) Keys() iter.Seq[K] {
	return seqKeys[K, V](b)
}

// Values returns an iterator over the values.
func (b *Borrowed[K, V]) Values() iter.Seq[V] {
	return seqValues[K, V](b)
}

// AllMut returns an iterator over the keys and pointers to the values.
func (b *Borrowed[K, V]) AllMut() iter.Seq2[K, *V] {
	return seqAllMut[K, V](b, "AllMut")
}

// ValuesMut returns an iterator over pointers to the values.
func (b *Borrowed[K, V]) ValuesMut() iter.Seq[*V] {
	return seqValuesMut[K, V](b, "ValuesMut")
}

// AsSlice returns the borrowed slice, clipped to its length.
func (b *Borrowed[K, V]) AsSlice() []Pair[K, V] {
	return b.pairs[:len(b.pairs):len(b.pairs)]
}

// ToOwned copies the pairs into a new Map that compares keys the same way.
func (b *Borrowed[K, V]) ToOwned() *Map[K, V] {
	storage := make([]Pair[K, V], len(b.pairs))
	copy(storage, b.pairs)
	return &Map[K, V]{storage: storage, eq: b.eq}
}

// String formats the view as {k1: v1, k2: v2}.
func (b *Borrowed[K, V]) String() string {
	return formatPairs(b.pairs)
}
