package kv

import (
	"errors"
)

var (
	// ErrMissingKey is returned when a request is built without a key.
	ErrMissingKey = errors.New("key must not be empty")

	// ErrEmptyResponse is returned by the typed read operations when
	// the store holds no value at the requested key.
	ErrEmptyResponse = errors.New("store returned an empty response")

	// ErrRecursiveRead is returned when ReadJSON is combined with
	// WithRecurse. Typed reads decode exactly one value; use Read for
	// prefix reads.
	ErrRecursiveRead = errors.New("recursive reads are not supported by typed reads")
)
