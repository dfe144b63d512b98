// Package kv implements the typed client operations for the store's KV
// endpoints. Every operation performs exactly one HTTP round trip
// through the caller-supplied client and propagates any failure to the
// caller unchanged; no retries happen at this layer.
package kv

import (
	"context"
	"errors"
	"net/http"

	"github.com/readysettech/consulkv/api"
	"github.com/readysettech/consulkv/internal/options"
	"github.com/readysettech/consulkv/marshaller"
)

// notFound reports whether err is the store's 404 answer for a key that
// does not exist. The read operations translate it into an empty
// result so that absence is not an error at this layer.
func notFound(err error) bool {
	var respErr api.ResponseError

	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// Delete removes the given key. Deleting a key that does not exist
// still reports success.
// Options: WithDatacenter, WithNamespace, WithRecurse, WithCAS.
func Delete(ctx context.Context, client api.Client, key string, opts ...Option) (api.Response[bool], error) {
	req, err := deleteRequest{key: key, opts: options.Apply(opts)}.build()
	if err != nil {
		return api.Response[bool]{}, err
	}

	return api.Exec[bool](ctx, client, req)
}

// Keys lists the keys under the given path prefix. An empty prefix
// lists every key in the store; a prefix with no keys under it lists
// as empty.
// Options: WithDatacenter, WithNamespace, WithSeparator, WithConsistent,
// WithStale.
func Keys(ctx context.Context, client api.Client, path string, opts ...Option) (api.Response[[]string], error) {
	req, err := keysRequest{prefix: path, opts: options.Apply(opts)}.build()
	if err != nil {
		return api.Response[[]string]{}, err
	}

	res, err := api.Exec[[]string](ctx, client, req)
	if notFound(err) {
		return api.Response[[]string]{}, nil
	}

	return res, err
}

// Read returns the pairs stored at the given key: zero or one for a
// plain read, any number when WithRecurse treats the key as a prefix.
// A key that does not exist reads as zero pairs, not as an error.
// Options: WithDatacenter, WithNamespace, WithRecurse, WithConsistent,
// WithStale.
func Read(ctx context.Context, client api.Client, key string, opts ...Option) (api.Response[[]Pair], error) {
	req, err := readRequest{key: key, opts: options.Apply(opts)}.build()
	if err != nil {
		return api.Response[[]Pair]{}, err
	}

	res, err := api.Exec[[]Pair](ctx, client, req)
	if notFound(err) {
		return api.Response[[]Pair]{}, nil
	}

	return res, err
}

// ReadRaw returns the undecorated value stored at the given key, with
// no pair metadata. A key that does not exist reads as an empty value,
// indistinguishable from a stored empty value.
// Options: WithDatacenter, WithNamespace, WithConsistent, WithStale.
func ReadRaw(ctx context.Context, client api.Client, key string, opts ...Option) (api.Response[[]byte], error) {
	req, err := readRawRequest{key: key, opts: options.Apply(opts)}.build()
	if err != nil {
		return api.Response[[]byte]{}, err
	}

	res, err := api.ExecRaw(ctx, client, req)
	if notFound(err) {
		return api.Response[[]byte]{}, nil
	}

	return res, err
}

// ReadJSON reads the given key and deserializes its value from JSON
// into T. It fails with ErrEmptyResponse when the store holds no value
// at the key and with a marshaller.UnmarshalError when the value is not
// valid JSON for T. Combining ReadJSON with WithRecurse fails with
// ErrRecursiveRead; use Read for prefix reads.
// Options: WithDatacenter, WithNamespace, WithConsistent, WithStale.
func ReadJSON[T any](ctx context.Context, client api.Client, key string, opts ...Option) (api.Response[TypedPair[T]], error) {
	callOpts := options.Apply(opts)
	if callOpts.recurse {
		return api.Response[TypedPair[T]]{}, ErrRecursiveRead
	}

	req, err := readRequest{key: key, opts: callOpts}.build()
	if err != nil {
		return api.Response[TypedPair[T]]{}, err
	}

	res, err := api.Exec[[]Pair](ctx, client, req)
	switch {
	case notFound(err):
		return api.Response[TypedPair[T]]{}, ErrEmptyResponse
	case err != nil:
		return api.Response[TypedPair[T]]{}, err
	}

	if len(res.Value) == 0 {
		return api.Response[TypedPair[T]]{}, ErrEmptyResponse
	}

	pair := res.Value[len(res.Value)-1]

	value, err := marshaller.NewTypedJSONMarshaller[T]().Unmarshal(pair.Value)
	if err != nil {
		return api.Response[TypedPair[T]]{}, err
	}

	return api.Response[TypedPair[T]]{
		Value: TypedPair[T]{
			PairMeta: pair.PairMeta,
			Value:    value,
		},
		Metadata: res.Metadata,
	}, nil
}

// ReadJSONRaw reads the raw value at the given key and deserializes it
// from JSON into T. It fails with ErrEmptyResponse when the store
// returns an empty body and with a marshaller.UnmarshalError when the
// body is not valid JSON for T.
// Options: WithDatacenter, WithNamespace, WithConsistent, WithStale.
func ReadJSONRaw[T any](ctx context.Context, client api.Client, key string, opts ...Option) (api.Response[T], error) {
	req, err := readRawRequest{key: key, opts: options.Apply(opts)}.build()
	if err != nil {
		return api.Response[T]{}, err
	}

	res, err := api.ExecRaw(ctx, client, req)
	switch {
	case notFound(err):
		return api.Response[T]{}, ErrEmptyResponse
	case err != nil:
		return api.Response[T]{}, err
	}

	if len(res.Value) == 0 {
		return api.Response[T]{}, ErrEmptyResponse
	}

	value, err := marshaller.NewTypedJSONMarshaller[T]().Unmarshal(res.Value)
	if err != nil {
		return api.Response[T]{}, err
	}

	return api.Response[T]{Value: value, Metadata: res.Metadata}, nil
}

// Set stores the given value at the given key and reports whether the
// write was applied.
// Options: WithDatacenter, WithNamespace, WithFlags, WithCAS,
// WithAcquire, WithRelease.
func Set(ctx context.Context, client api.Client, key string, value []byte, opts ...Option) (api.Response[bool], error) {
	req, err := setRequest{key: key, value: value, opts: options.Apply(opts)}.build()
	if err != nil {
		return api.Response[bool]{}, err
	}

	return api.Exec[bool](ctx, client, req)
}

// SetJSON serializes the given value to JSON and stores it at the given
// key. A marshaller.MarshalError means the value could not be
// serialized; no request is sent in that case.
// Options: WithDatacenter, WithNamespace, WithFlags, WithCAS,
// WithAcquire, WithRelease.
func SetJSON[T any](ctx context.Context, client api.Client, key string, value T, opts ...Option) (api.Response[bool], error) {
	body, err := marshaller.NewTypedJSONMarshaller[T]().Marshal(value)
	if err != nil {
		return api.Response[bool]{}, err
	}

	req, err := setRequest{key: key, value: body, opts: options.Apply(opts)}.build()
	if err != nil {
		return api.Response[bool]{}, err
	}

	return api.Exec[bool](ctx, client, req)
}
