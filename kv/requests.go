package kv

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/readysettech/consulkv/api"
)

// applyCommon sets the query parameters understood by every KV endpoint.
func (o callOptions) applyCommon(query url.Values) {
	if o.datacenter != "" {
		query.Set("dc", o.datacenter)
	}

	if o.namespace != "" {
		query.Set("ns", o.namespace)
	}
}

// applyConsistency sets the consistency mode parameters of a read.
func (o callOptions) applyConsistency(query url.Values) {
	if o.consistent {
		query.Set("consistent", "true")
	}

	if o.stale {
		query.Set("stale", "true")
	}
}

// readRequest builds a GET of one key, or of a whole prefix when
// recurse is set.
type readRequest struct {
	key  string
	opts callOptions
}

func (r readRequest) build() (api.Request, error) {
	if r.key == "" {
		return api.Request{}, ErrMissingKey
	}

	query := url.Values{}
	r.opts.applyCommon(query)
	r.opts.applyConsistency(query)

	if r.opts.recurse {
		query.Set("recurse", "true")
	}

	return api.NewRequest(http.MethodGet, "kv/"+r.key, query, nil), nil
}

// readRawRequest builds a GET of one key returning the undecorated
// stored value.
type readRawRequest struct {
	key  string
	opts callOptions
}

func (r readRawRequest) build() (api.Request, error) {
	if r.key == "" {
		return api.Request{}, ErrMissingKey
	}

	query := url.Values{}
	r.opts.applyCommon(query)
	r.opts.applyConsistency(query)
	query.Set("raw", "true")

	return api.NewRequest(http.MethodGet, "kv/"+r.key, query, nil), nil
}

// keysRequest builds a key listing under a prefix. An empty prefix
// lists the whole store.
type keysRequest struct {
	prefix string
	opts   callOptions
}

func (r keysRequest) build() (api.Request, error) {
	query := url.Values{}
	r.opts.applyCommon(query)
	r.opts.applyConsistency(query)
	query.Set("keys", "true")

	if r.opts.separator != "" {
		query.Set("separator", r.opts.separator)
	}

	return api.NewRequest(http.MethodGet, "kv/"+r.prefix, query, nil), nil
}

// setRequest builds a PUT of a value to a key.
type setRequest struct {
	key   string
	value []byte
	opts  callOptions
}

func (r setRequest) build() (api.Request, error) {
	if r.key == "" {
		return api.Request{}, ErrMissingKey
	}

	query := url.Values{}
	r.opts.applyCommon(query)

	if r.opts.flags.IsSome() {
		query.Set("flags", strconv.FormatUint(r.opts.flags.Unwrap(), 10))
	}

	if r.opts.cas.IsSome() {
		query.Set("cas", strconv.FormatUint(r.opts.cas.Unwrap(), 10))
	}

	if r.opts.acquire != "" {
		query.Set("acquire", r.opts.acquire)
	}

	if r.opts.release != "" {
		query.Set("release", r.opts.release)
	}

	return api.NewRequest(http.MethodPut, "kv/"+r.key, query, r.value), nil
}

// deleteRequest builds a DELETE of one key, or of a whole prefix when
// recurse is set.
type deleteRequest struct {
	key  string
	opts callOptions
}

func (r deleteRequest) build() (api.Request, error) {
	if r.key == "" {
		return api.Request{}, ErrMissingKey
	}

	query := url.Values{}
	r.opts.applyCommon(query)

	if r.opts.recurse {
		query.Set("recurse", "true")
	}

	if r.opts.cas.IsSome() {
		query.Set("cas", strconv.FormatUint(r.opts.cas.Unwrap(), 10))
	}

	return api.NewRequest(http.MethodDelete, "kv/"+r.key, query, nil), nil
}
