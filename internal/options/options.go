// Package options implements the functional option plumbing shared by the
// public packages.
package options

// Callback mutates an options value in place.
type Callback[T any] func(*T)

// Apply builds an options value of type T by applying the callbacks in
// order to its zero value.
func Apply[T any](cbs []Callback[T]) T {
	var opts T

	for _, cb := range cbs {
		cb(&opts)
	}

	return opts
}
