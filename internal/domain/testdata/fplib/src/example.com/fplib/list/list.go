// Package list is distributed in a GOPATH-style layout.
package list

import fplib "example.com/fplib"

// List is an immutable sequence.
type List[T any] struct {
	items []T
}

// Of builds a List from its arguments.
func Of[T any](items ...T) List[T] {
	return List[T]{items: items}
}

// Head returns the first element, if any.
func (l List[T]) Head() fplib.Option[T] {
	if len(l.items) == 0 {
		return fplib.None[T]()
	}

	return fplib.Some(l.items[0])
}

// Len returns the number of elements.
func (l List[T]) Len() int {
	return len(l.items)
}
