package sets

import (
	"cmp"
	"slices"
)

// Set is a simple generic hash set for ordered keys.
// Usage: s := sets.New("main", "cli"); s.Add("version"); if s.Has("cli") {...}
type Set[T cmp.Ordered] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T cmp.Ordered](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present. A nil set contains nothing.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Union returns a new set holding the members of both sets.
func (s Set[T]) Union(other Set[T]) Set[T] {
	out := make(Set[T], len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Minus returns a new set holding the members of s that are not in other.
func (s Set[T]) Minus(other Set[T]) Set[T] {
	out := make(Set[T], len(s))
	for k := range s {
		if !other.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in ascending order, for stable log output.
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
