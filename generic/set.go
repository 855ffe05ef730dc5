package generic

import "sort"

type Void struct{}

// Set is an unordered collection of distinct comparable values.
type Set[T comparable] map[T]Void

func NewSet[T comparable](items ...T) Set[T] {
	res := make(Set[T], len(items))
	for _, item := range items {
		res.Add(item)
	}
	return res
}

// Add returns true if the item was not already present.
func (s Set[T]) Add(item T) bool {
	if _, found := s[item]; found {
		return false
	}
	s[item] = Void{}
	return true
}

// Contains returns true only if every one of items is present.
func (s Set[T]) Contains(items ...T) bool {
	for _, item := range items {
		if _, found := s[item]; !found {
			return false
		}
	}
	return true
}

func (s Set[T]) Count() int {
	return len(s)
}

// Remove returns true if the item was present.
func (s Set[T]) Remove(item T) bool {
	if _, found := s[item]; !found {
		return false
	}
	delete(s, item)
	return true
}

func (s Set[T]) ToSlice() []T {
	slice := make([]T, 0, len(s))
	for item := range s {
		slice = append(slice, item)
	}
	return slice
}

// SortedSlice returns the items ordered by less.
func SortedSlice[T comparable](s Set[T], less func(a, b T) bool) []T {
	items := s.ToSlice()
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
	return items
}
