package generic

import "fmt"

// An Option[T] is a value that may be absent, used instead of nil pointers for optional fields.
type Option[T any] struct {
	value    T
	hasValue bool
}

// Some constructs an Option[T] that has a value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, hasValue: true}
}

// None constructs an Option[T] that does not have a value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// SomeIf constructs Some(value) if ok is true, otherwise None.
func SomeIf[T any](value T, ok bool) Option[T] {
	if ok {
		return Some(value)
	}
	return None[T]()
}

// Expect returns the contained value, or panics with the supplied message if there is no value.
func (o Option[T]) Expect(msg string) T {
	if o.hasValue {
		return o.value
	} else {
		panic(msg)
	}
}

// Get returns the contained value and whether there was one, like a map lookup.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.hasValue
}

// IsNone returns true if this Option[T] does not have a value.
func (o Option[T]) IsNone() bool {
	return !o.hasValue
}

// IsSome returns true if this Option[T] has a value.
func (o Option[T]) IsSome() bool {
	return o.hasValue
}

// Unwrap returns the contained value, or panics if there is no value.
func (o Option[T]) Unwrap() T {
	return o.Expect("tried to Unwrap() a None")
}

// UnwrapOr returns the contained value, or other if there is no value.
func (o Option[T]) UnwrapOr(other T) T {
	if o.hasValue {
		return o.value
	} else {
		return other
	}
}

// UnwrapOrDefault returns the contained value, or the "zero value" for T if there is no value.
func (o Option[T]) UnwrapOrDefault() T {
	return o.value
}

func (o Option[T]) String() string {
	if o.hasValue {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	return "None"
}
