// Package linearset provides a set backed by a linearmap.Map with empty values.
//
// Membership tests scan the elements one by one, so the set is meant for a handful of elements whose
// type may not be hashable or ordered.
package linearset

import (
	"fmt"
	"iter"
	"strings"

	"github.com/scusemua/linear-map/common/linearmap"
)

// Set is a set of elements compared by an equality relation and stored in a single slice.
//
// The zero value is an empty set that compares elements with == on their interface values. A Set
// must not be copied after first use.
type Set[T any] struct {
	m *linearmap.Map[T, struct{}]
}

// New creates an empty set whose elements are compared with ==.
func New[T comparable]() *Set[T] {
	return &Set[T]{m: linearmap.New[T, struct{}]()}
}

// WithCapacity creates an empty set with room for at least capacity elements.
func WithCapacity[T comparable](capacity int) *Set[T] {
	return &Set[T]{m: linearmap.WithCapacity[T, struct{}](capacity)}
}

// NewFunc creates an empty set whose elements are compared with eq.
func NewFunc[T any](eq func(a, b T) bool) *Set[T] {
	return &Set[T]{m: linearmap.NewFunc[T, struct{}](eq)}
}

// NewEqualer creates an empty set whose elements are compared with their Equal method.
func NewEqualer[T linearmap.Equaler[T]]() *Set[T] {
	return &Set[T]{m: linearmap.NewEqualer[T, struct{}]()}
}

// Of creates a set holding values, with a capacity of exactly len(values). Repeated values are
// stored once.
func Of[T comparable](values ...T) *Set[T] {
	s := WithCapacity[T](len(values))
	for _, v := range values {
		s.Insert(v)
	}
	return s
}

// FromSlice creates a set holding the distinct elements of values, in their order of first
// appearance. values is not retained.
func FromSlice[T comparable](values []T) *Set[T] {
	return Of(values...)
}

// Collect creates a set from the elements produced by seq.
func Collect[T comparable](seq iter.Seq[T]) *Set[T] {
	s := New[T]()
	s.Extend(seq)
	return s
}

func (s *Set[T]) inner() *linearmap.Map[T, struct{}] {
	if s.m == nil {
		s.m = new(linearmap.Map[T, struct{}])
	}
	return s.m
}

// Cap returns the number of elements the set can hold without reallocating.
func (s *Set[T]) Cap() int {
	return s.inner().Cap()
}

// Reserve makes room for at least additional more elements.
func (s *Set[T]) Reserve(additional int) {
	s.inner().Reserve(additional)
}

// ShrinkToFit releases unused capacity.
func (s *Set[T]) ShrinkToFit() {
	s.inner().ShrinkToFit()
}

// Len returns the number of elements.
func (s *Set[T]) Len() int {
	return s.inner().Len()
}

// IsEmpty returns true if the set has no elements.
func (s *Set[T]) IsEmpty() bool {
	return s.inner().IsEmpty()
}

// Clear removes every element and keeps the storage.
func (s *Set[T]) Clear() {
	s.inner().Clear()
}

// Insert adds value and returns true if it was not already present. An element that is already
// present is left as it is.
func (s *Set[T]) Insert(value T) bool {
	_, replaced := s.inner().Insert(value, struct{}{})
	return !replaced
}

// Extend inserts every element produced by seq.
func (s *Set[T]) Extend(seq iter.Seq[T]) {
	for v := range seq {
		s.Insert(v)
	}
}

// Remove deletes value and returns true if it was present. Like linearmap.Map.Remove, it moves the
// last element into the freed slot.
func (s *Set[T]) Remove(value T) bool {
	_, ok := s.inner().Remove(value)
	return ok
}

// Contains returns true if the set holds an element equal to value.
func (s *Set[T]) Contains(value T) bool {
	return s.inner().ContainsKey(value)
}

// Get returns the stored element equal to value.
func (s *Set[T]) Get(value T) (T, bool) {
	stored, _, ok := s.inner().GetKeyValue(value)
	return stored, ok
}

// Retain keeps only the elements for which keep returns true, in their current order.
func (s *Set[T]) Retain(keep func(value T) bool) {
	s.inner().Retain(func(value T, _ *struct{}) bool {
		return keep(value)
	})
}

// All returns an iterator over the elements in storage order.
func (s *Set[T]) All() iter.Seq[T] {
	return s.inner().Keys()
}

// AsSlice returns the storage of the set. It aliases the set and is only valid until the set is
// next modified.
func (s *Set[T]) AsSlice() []linearmap.Pair[T, struct{}] {
	return s.inner().AsSlice()
}

// ToSlice copies the elements into a new slice, in storage order.
func (s *Set[T]) ToSlice() []T {
	pairs := s.inner().AsSlice()
	values := make([]T, len(pairs))
	for i, p := range pairs {
		values[i] = p.Key
	}
	return values
}

// Clone returns a copy of the set that compares elements the same way.
func (s *Set[T]) Clone() *Set[T] {
	return &Set[T]{m: s.inner().Clone()}
}

// String formats the set as {a, b, c}.
func (s *Set[T]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range s.inner().AsSlice() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", p.Key)
	}
	b.WriteByte('}')
	return b.String()
}

// Drain hands out the elements that were removed from a set by Set.Drain.
type Drain[T any] struct {
	d *linearmap.Drain[T, struct{}]
}

// Drain empties the set and returns a cursor over the removed elements.
func (s *Set[T]) Drain() *Drain[T] {
	return &Drain[T]{d: s.inner().Drain()}
}

// Next returns the next removed element.
func (d *Drain[T]) Next() (T, bool) {
	v, _, ok := d.d.Next()
	return v, ok
}

// NextBack returns the next removed element from the back.
func (d *Drain[T]) NextBack() (T, bool) {
	v, _, ok := d.d.NextBack()
	return v, ok
}

// Len returns the number of elements left.
func (d *Drain[T]) Len() int {
	return d.d.Len()
}

// All consumes the remaining elements and closes the Drain.
func (d *Drain[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range d.d.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Close drops the elements that were not consumed.
func (d *Drain[T]) Close() {
	d.d.Close()
}
