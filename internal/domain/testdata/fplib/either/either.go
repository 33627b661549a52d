// Package either models a value of one of two types.
package either

// Either is Left or Right.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Right builds a right-biased Either.
func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{right: r, isRight: true}
}

// Left builds a left Either.
func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{left: l}
}

// IsRight reports whether the value is a Right.
func (e Either[L, R]) IsRight() bool {
	return e.isRight
}
