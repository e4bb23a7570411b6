package linearset

import "iter"

// Difference returns an iterator over the elements of s that are not in other, in the storage
// order of s.
func (s *Set[T]) Difference(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s.All() {
			if !other.Contains(v) && !yield(v) {
				return
			}
		}
	}
}

// SymmetricDifference returns an iterator over the elements that are in exactly one of s and
// other: first those of s, then those of other.
func (s *Set[T]) SymmetricDifference(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s.Difference(other) {
			if !yield(v) {
				return
			}
		}
		for v := range other.Difference(s) {
			if !yield(v) {
				return
			}
		}
	}
}

// Intersection returns an iterator over the elements of s that are also in other.
func (s *Set[T]) Intersection(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s.All() {
			if other.Contains(v) && !yield(v) {
				return
			}
		}
	}
}

// Union returns an iterator over the elements of s followed by the elements of other that are not
// in s. Every element is produced once.
func (s *Set[T]) Union(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s.All() {
			if !yield(v) {
				return
			}
		}
		for v := range other.Difference(s) {
			if !yield(v) {
				return
			}
		}
	}
}

// IsDisjoint returns true if s and other have no element in common.
func (s *Set[T]) IsDisjoint(other *Set[T]) bool {
	for range s.Intersection(other) {
		return false
	}
	return true
}

// IsSubset returns true if every element of s is in other.
func (s *Set[T]) IsSubset(other *Set[T]) bool {
	if s.Len() > other.Len() {
		return false
	}
	for range s.Difference(other) {
		return false
	}
	return true
}

// IsSuperset returns true if every element of other is in s.
func (s *Set[T]) IsSuperset(other *Set[T]) bool {
	return other.IsSubset(s)
}

// Equal returns true if s and other hold the same elements, in any order.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return s.Len() == other.Len() && s.IsSubset(other)
}
