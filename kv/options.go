package kv

import (
	"github.com/tarantool/go-option"

	"github.com/readysettech/consulkv/internal/options"
)

// callOptions collects the optional query parameters of a KV call.
// Each request builder consumes only the parameters its endpoint
// understands; the rest are ignored.
type callOptions struct {
	datacenter string
	namespace  string
	recurse    bool
	separator  string
	consistent bool
	stale      bool
	flags      option.Generic[uint64]
	cas        option.Generic[uint64]
	acquire    string
	release    string
}

// Option configures a single KV call.
type Option = options.Callback[callOptions]

// WithDatacenter targets the call at the given datacenter instead of
// the agent's own.
func WithDatacenter(datacenter string) Option {
	return func(opts *callOptions) {
		opts.datacenter = datacenter
	}
}

// WithNamespace targets the call at the given namespace.
func WithNamespace(namespace string) Option {
	return func(opts *callOptions) {
		opts.namespace = namespace
	}
}

// WithRecurse makes Read or Delete treat the key as a prefix and apply
// to every key under it. Rejected by ReadJSON.
func WithRecurse() Option {
	return func(opts *callOptions) {
		opts.recurse = true
	}
}

// WithSeparator makes Keys list keys only up to the given separator.
func WithSeparator(separator string) Option {
	return func(opts *callOptions) {
		opts.separator = separator
	}
}

// WithConsistent makes a read fully consistent at the cost of an extra
// round trip to the leader.
func WithConsistent() Option {
	return func(opts *callOptions) {
		opts.consistent = true
	}
}

// WithStale allows a read to be served by any server, trading
// consistency for lower latency.
func WithStale() Option {
	return func(opts *callOptions) {
		opts.stale = true
	}
}

// WithFlags attaches an opaque flags value to a Set call.
func WithFlags(flags uint64) Option {
	return func(opts *callOptions) {
		opts.flags = option.Some(flags)
	}
}

// WithCAS turns a Set or Delete into a check-and-set: the operation
// succeeds only if the key's modify index matches the given index.
func WithCAS(index uint64) Option {
	return func(opts *callOptions) {
		opts.cas = option.Some(index)
	}
}

// WithAcquire makes a Set acquire the key's lock for the given session.
func WithAcquire(session string) Option {
	return func(opts *callOptions) {
		opts.acquire = session
	}
}

// WithRelease makes a Set release the key's lock held by the given
// session.
func WithRelease(session string) Option {
	return func(opts *callOptions) {
		opts.release = session
	}
}
