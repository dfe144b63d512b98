// Package typed provides a typed, prefix-scoped view over the KV store.
// A Store[T] keeps values of a single Go type under a common key prefix
// and (de)serializes them with a pluggable marshaller.
package typed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/readysettech/consulkv/api"
	"github.com/readysettech/consulkv/kv"
	"github.com/readysettech/consulkv/marshaller"
)

var (
	// ErrInvalidName is returned for empty names and names starting or
	// ending with a slash.
	ErrInvalidName = errors.New("invalid name")
	// ErrNotFound is returned by Get when no value is stored under the
	// name.
	ErrNotFound = errors.New("not found")
	// ErrNotApplied is returned by Put or Delete when the store refused
	// the write.
	ErrNotApplied = errors.New("write was not applied")
)

// Store is a typed view over the keys below a fixed prefix.
type Store[T any] struct {
	client     api.Client
	prefix     string
	marshaller marshaller.TypedMarshaller[T]
}

// config collects the optional Store configuration.
type config[T any] struct {
	marshaller marshaller.TypedMarshaller[T]
}

// Option configures a Store.
type Option[T any] func(*config[T])

// WithMarshaller sets the marshaller used for stored values. Defaults
// to JSON.
func WithMarshaller[T any](m marshaller.TypedMarshaller[T]) Option[T] {
	return func(cfg *config[T]) {
		cfg.marshaller = m
	}
}

// New creates a Store over the given prefix. The prefix is normalized
// to end with a single slash; an empty prefix scopes the store to the
// whole keyspace.
func New[T any](client api.Client, prefix string, opts ...Option[T]) *Store[T] {
	var cfg config[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.marshaller == nil {
		cfg.marshaller = marshaller.NewTypedJSONMarshaller[T]()
	}

	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Store[T]{
		client:     client,
		prefix:     prefix,
		marshaller: cfg.marshaller,
	}
}

func checkName(name string) bool {
	switch {
	case len(name) == 0:
		return false
	case strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/"):
		return false
	default:
		return true
	}
}

func zero[T any]() T {
	var out T

	return out
}

// Get retrieves and deserializes the value stored under name.
func (s *Store[T]) Get(ctx context.Context, name string) (T, error) {
	if !checkName(name) {
		return zero[T](), ErrInvalidName
	}

	res, err := kv.Read(ctx, s.client, s.prefix+name)
	switch {
	case err != nil:
		return zero[T](), fmt.Errorf("failed to read %q: %w", name, err)
	case len(res.Value) == 0:
		return zero[T](), ErrNotFound
	}

	pair := res.Value[len(res.Value)-1]

	value, err := s.marshaller.Unmarshal(pair.Value)
	if err != nil {
		return zero[T](), fmt.Errorf("failed to decode %q: %w", name, err)
	}

	return value, nil
}

// Put serializes the value and stores it under name.
func (s *Store[T]) Put(ctx context.Context, name string, value T) error {
	if !checkName(name) {
		return ErrInvalidName
	}

	data, err := s.marshaller.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", name, err)
	}

	res, err := kv.Set(ctx, s.client, s.prefix+name, data)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}

	if !res.Value {
		return ErrNotApplied
	}

	return nil
}

// Delete removes the value stored under name. Deleting a name that does
// not exist is not an error.
func (s *Store[T]) Delete(ctx context.Context, name string) error {
	if !checkName(name) {
		return ErrInvalidName
	}

	res, err := kv.Delete(ctx, s.client, s.prefix+name)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}

	if !res.Value {
		return ErrNotApplied
	}

	return nil
}

// List returns the names stored under the prefix, with the prefix
// stripped. A prefix nobody has written to yet lists as empty.
func (s *Store[T]) List(ctx context.Context) ([]string, error) {
	res, err := kv.Keys(ctx, s.client, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", s.prefix, err)
	}

	names := make([]string, 0, len(res.Value))
	for _, key := range res.Value {
		names = append(names, strings.TrimPrefix(key, s.prefix))
	}

	return names, nil
}
