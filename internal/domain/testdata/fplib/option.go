// Package fplib is a small functional library snippets are validated against.
package fplib

// Option holds a value that may be absent.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Map applies f to a present value.
func (o Option[T]) Map(f func(T) T) Option[T] {
	if !o.ok {
		return o
	}

	return Some(f(o.value))
}

// Filter keeps the value only when p holds.
func (o Option[T]) Filter(p func(T) bool) Option[T] {
	if !o.ok || !p(o.value) {
		return None[T]()
	}

	return o
}

// OrElse returns the value or fallback.
func (o Option[T]) OrElse(fallback T) T {
	if !o.ok {
		return fallback
	}

	return o.value
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}
