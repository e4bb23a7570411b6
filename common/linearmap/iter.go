package linearmap

import (
	"iter"

	"github.com/scusemua/linear-map/common/internal/exclusive"
)

// store is what the iterators need from a Map or a Borrowed view.
type store[K, V any] interface {
	slice() []Pair[K, V]
	lock() *exclusive.Guard
}

func seqAll[K, V any](s store[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		g := s.lock()
		g.Share()
		defer g.Unshare()

		for _, p := range s.slice() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func seqBackward[K, V any](s store[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		g := s.lock()
		g.Share()
		defer g.Unshare()

		pairs := s.slice()
		for i := len(pairs) - 1; i >= 0; i-- {
			if !yield(pairs[i].Key, pairs[i].Value) {
				return
			}
		}
	}
}

func seqKeys[K, V any](s store[K, V]) iter.Seq[K] {
	return func(yield func(K) bool) {
		g := s.lock()
		g.Share()
		defer g.Unshare()

		for _, p := range s.slice() {
			if !yield(p.Key) {
				return
			}
		}
	}
}

func seqValues[K, V any](s store[K, V]) iter.Seq[V] {
	return func(yield func(V) bool) {
		g := s.lock()
		g.Share()
		defer g.Unshare()

		for _, p := range s.slice() {
			if !yield(p.Value) {
				return
			}
		}
	}
}

func seqAllMut[K, V any](s store[K, V], holder string) iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		g := s.lock()
		g.Acquire(holder)
		defer g.Release()

		pairs := s.slice()
		for i := range pairs {
			if !yield(pairs[i].Key, &pairs[i].Value) {
				return
			}
		}
	}
}

func seqValuesMut[K, V any](s store[K, V], holder string) iter.Seq[*V] {
	return func(yield func(*V) bool) {
		g := s.lock()
		g.Acquire(holder)
		defer g.Release()

		pairs := s.slice()
		for i := range pairs {
			if !yield(&pairs[i].Value) {
				return
			}
		}
	}
}

// All returns an iterator over the pairs in storage order.
//
// The map must not be modified during the loop; its mutating methods panic until the loop ends.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return seqAll[K, V](m)
}

// Backward is like All but visits the pairs from the back of the storage to the front.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return seqBackward[K, V](m)
}

// Keys returns an iterator over the keys in storage order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return seqKeys[K, V](m)
}

// Values returns an iterator over the values in storage order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return seqValues[K, V](m)
}

// AllMut returns an iterator over the keys and pointers to the values, in storage order. The map is
// exclusively borrowed for the duration of the loop.
func (m *Map[K, V]) AllMut() iter.Seq2[K, *V] {
	return seqAllMut[K, V](m, "AllMut")
}

// ValuesMut returns an iterator over pointers to the values, in storage order. The map is
// exclusively borrowed for the duration of the loop.
func (m *Map[K, V]) ValuesMut() iter.Seq[*V] {
	return seqValuesMut[K, V](m, "ValuesMut")
}

// Iter is a double-ended cursor over the pairs of a map, in storage order from the front and in
// reverse from the back.
//
// Like a range loop, an Iter is a read-only borrow: the map's mutating methods panic until the
// cursor is exhausted from either end or closed.
type Iter[K, V any] struct {
	pairs []Pair[K, V]
	guard *exclusive.Guard
}

// Iter returns a cursor positioned before the first pair.
func (m *Map[K, V]) Iter() *Iter[K, V] {
	return newIter[K, V](m)
}

func newIter[K, V any](s store[K, V]) *Iter[K, V] {
	it := &Iter[K, V]{pairs: s.slice()}
	if len(it.pairs) > 0 {
		it.guard = s.lock()
		it.guard.Share()
	}
	return it
}

func (it *Iter[K, V]) release() {
	if it.guard != nil {
		it.guard.Unshare()
		it.guard = nil
	}
	it.pairs = nil
}

// Next returns the next pair from the front. The boolean is false once the cursor is exhausted.
func (it *Iter[K, V]) Next() (K, V, bool) {
	if len(it.pairs) == 0 {
		it.release()
		var (
			zeroKey   K
			zeroValue V
		)
		return zeroKey, zeroValue, false
	}

	p := it.pairs[0]
	it.pairs = it.pairs[1:]
	if len(it.pairs) == 0 {
		it.release()
	}
	return p.Key, p.Value, true
}

// NextBack returns the next pair from the back.
func (it *Iter[K, V]) NextBack() (K, V, bool) {
	if len(it.pairs) == 0 {
		it.release()
		var (
			zeroKey   K
			zeroValue V
		)
		return zeroKey, zeroValue, false
	}

	last := len(it.pairs) - 1
	p := it.pairs[last]
	it.pairs = it.pairs[:last]
	if last == 0 {
		it.release()
	}
	return p.Key, p.Value, true
}

// Len returns the number of pairs left.
func (it *Iter[K, V]) Len() int {
	return len(it.pairs)
}

// Clone returns an independent cursor at the same position. The clone is a borrow of its own and
// has to be exhausted or closed separately.
func (it *Iter[K, V]) Clone() *Iter[K, V] {
	clone := &Iter[K, V]{pairs: it.pairs, guard: it.guard}
	if clone.guard != nil {
		clone.guard.Share()
	}
	return clone
}

// All consumes the remaining pairs from the front. The cursor is closed when the loop ends, even
// if it ends early.
func (it *Iter[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		defer it.Close()
		for {
			k, v, ok := it.Next()
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// Close ends the borrow. Closing twice is a no-op.
func (it *Iter[K, V]) Close() {
	it.release()
}

// IterMut is a double-ended cursor over the keys of a map and pointers to its values.
//
// It borrows the map exclusively until it is exhausted from either end or closed. Keys cannot be
// changed through it.
type IterMut[K, V any] struct {
	pairs []Pair[K, V]
	guard *exclusive.Guard
}

// IterMut returns a mutable cursor positioned before the first pair.
func (m *Map[K, V]) IterMut() *IterMut[K, V] {
	return newIterMut[K, V](m)
}

func newIterMut[K, V any](s store[K, V]) *IterMut[K, V] {
	g := s.lock()
	g.Acquire("IterMut")
	return &IterMut[K, V]{pairs: s.slice(), guard: g}
}

func (it *IterMut[K, V]) release() {
	if it.guard != nil {
		it.guard.Release()
		it.guard = nil
	}
	it.pairs = nil
}

// Next returns the next key and value pointer from the front.
func (it *IterMut[K, V]) Next() (K, *V, bool) {
	if len(it.pairs) == 0 {
		it.release()
		var zero K
		return zero, nil, false
	}

	p := &it.pairs[0]
	it.pairs = it.pairs[1:]
	if len(it.pairs) == 0 {
		it.release()
	}
	return p.Key, &p.Value, true
}

// NextBack returns the next key and value pointer from the back.
func (it *IterMut[K, V]) NextBack() (K, *V, bool) {
	if len(it.pairs) == 0 {
		it.release()
		var zero K
		return zero, nil, false
	}

	last := len(it.pairs) - 1
	p := &it.pairs[last]
	it.pairs = it.pairs[:last]
	if last == 0 {
		it.release()
	}
	return p.Key, &p.Value, true
}

// Len returns the number of pairs left.
func (it *IterMut[K, V]) Len() int {
	return len(it.pairs)
}

// All consumes the remaining pairs from the front. The cursor is closed when the loop ends, even
// if it ends early.
func (it *IterMut[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		defer it.Close()
		for {
			k, v, ok := it.Next()
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// Close releases the map. Closing twice is a no-op.
func (it *IterMut[K, V]) Close() {
	it.release()
}

// IntoIter hands out the pairs of a map by value, each exactly once. The map is empty from the
// moment the IntoIter is created.
type IntoIter[K, V any] struct {
	pairs []Pair[K, V]
}

// IntoIter takes the storage out of the map and returns a cursor over it.
func (m *Map[K, V]) IntoIter() *IntoIter[K, V] {
	m.guard.Check("IntoIter")
	return &IntoIter[K, V]{pairs: m.IntoPairs()}
}

// Next returns the next pair from the front.
func (it *IntoIter[K, V]) Next() (K, V, bool) {
	return takeFront(&it.pairs)
}

// NextBack returns the next pair from the back.
func (it *IntoIter[K, V]) NextBack() (K, V, bool) {
	return takeBack(&it.pairs)
}

// Len returns the number of pairs left.
func (it *IntoIter[K, V]) Len() int {
	return len(it.pairs)
}

// All consumes the remaining pairs from the front.
func (it *IntoIter[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for {
			k, v, ok := it.Next()
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// takeFront pops the first pair of *pairs and zeroes its slot.
func takeFront[K, V any](pairs *[]Pair[K, V]) (K, V, bool) {
	s := *pairs
	if len(s) == 0 {
		var (
			zeroKey   K
			zeroValue V
		)
		return zeroKey, zeroValue, false
	}

	p := s[0]
	s[0] = Pair[K, V]{}
	*pairs = s[1:]
	return p.Key, p.Value, true
}

// takeBack pops the last pair of *pairs and zeroes its slot.
func takeBack[K, V any](pairs *[]Pair[K, V]) (K, V, bool) {
	s := *pairs
	if len(s) == 0 {
		var (
			zeroKey   K
			zeroValue V
		)
		return zeroKey, zeroValue, false
	}

	last := len(s) - 1
	p := s[last]
	s[last] = Pair[K, V]{}
	*pairs = s[:last]
	return p.Key, p.Value, true
}

// Drain removes the pairs of a map and hands them out by value.
//
// The map is empty as soon as Drain returns, whether or not the pairs are ever consumed. Closing
// the Drain, or running it to exhaustion, discards what is left and gives the backing array back to
// the map so that its capacity is reused, provided nothing has been inserted in the meantime.
type Drain[K, V any] struct {
	m       *Map[K, V]
	backing []Pair[K, V]
	pairs   []Pair[K, V]
}

// Drain empties the map and returns a cursor over the removed pairs, in storage order from the
// front.
func (m *Map[K, V]) Drain() *Drain[K, V] {
	m.guard.Check("Drain")

	backing := m.storage
	m.storage = nil
	return &Drain[K, V]{m: m, backing: backing, pairs: backing}
}

// Next returns the next removed pair from the front.
func (d *Drain[K, V]) Next() (K, V, bool) {
	k, v, ok := takeFront(&d.pairs)
	if !ok {
		d.Close()
	}
	return k, v, ok
}

// NextBack returns the next removed pair from the back.
func (d *Drain[K, V]) NextBack() (K, V, bool) {
	k, v, ok := takeBack(&d.pairs)
	if !ok {
		d.Close()
	}
	return k, v, ok
}

// Len returns the number of pairs left.
func (d *Drain[K, V]) Len() int {
	return len(d.pairs)
}

// All consumes the remaining pairs from the front and closes the Drain when the loop ends.
func (d *Drain[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		defer d.Close()
		for {
			k, v, ok := takeFront(&d.pairs)
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// Close drops the pairs that were not consumed. Closing twice is a no-op.
func (d *Drain[K, V]) Close() {
	if d.m == nil {
		return
	}

	clear(d.pairs)
	d.pairs = nil

	m := d.m
	d.m = nil
	if cap(m.storage) == 0 && !m.guard.Held() && m.guard.Shared() == 0 {
		m.storage = d.backing[:0]
	}
	d.backing = nil
}
