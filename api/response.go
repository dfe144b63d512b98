package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tarantool/go-option"
)

// Header names used by the store to report query metadata.
const (
	headerIndex            = "X-Consul-Index"
	headerKnownLeader      = "X-Consul-KnownLeader"
	headerLastContact      = "X-Consul-LastContact"
	headerCache            = "X-Cache"
	headerContentHash      = "X-Consul-ContentHash"
	headerQueryBackend     = "X-Consul-Query-Backend"
	headerDefaultACLPolicy = "X-Consul-Default-ACL-Policy"
)

// Metadata carries the store-level information attached to every API
// response. Fields the store did not report are None.
type Metadata struct {
	// Index is the consistency index of the response.
	Index option.Generic[uint64]
	// KnownLeader reports whether a known leader existed when the query
	// was served.
	KnownLeader option.Generic[bool]
	// LastContact is the time since the serving agent last contacted
	// the leader.
	LastContact option.Generic[time.Duration]
	// Cache reports whether the response was served from the agent
	// cache ("HIT" or "MISS").
	Cache option.Generic[string]
	// ContentHash is the hash of the response content, when requested.
	ContentHash option.Generic[string]
	// QueryBackend names the backend that served the query.
	QueryBackend option.Generic[string]
	// DefaultACLPolicy is the agent's default ACL policy.
	DefaultACLPolicy string
}

// Response wraps a decoded payload together with the response Metadata.
// Changing the payload type of an existing response reuses the same
// Metadata value; no per-field copying is required.
type Response[T any] struct {
	// Value is the decoded response payload.
	Value T

	Metadata
}

// parseMetadata extracts response metadata from the HTTP headers.
// Malformed header values are treated as absent.
func parseMetadata(header http.Header) Metadata {
	meta := Metadata{
		Index:            option.None[uint64](),
		KnownLeader:      option.None[bool](),
		LastContact:      option.None[time.Duration](),
		Cache:            option.None[string](),
		ContentHash:      option.None[string](),
		QueryBackend:     option.None[string](),
		DefaultACLPolicy: header.Get(headerDefaultACLPolicy),
	}

	if raw := header.Get(headerIndex); raw != "" {
		if index, err := strconv.ParseUint(raw, 10, 64); err == nil {
			meta.Index = option.Some(index)
		}
	}

	if raw := header.Get(headerKnownLeader); raw != "" {
		if leader, err := strconv.ParseBool(raw); err == nil {
			meta.KnownLeader = option.Some(leader)
		}
	}

	// Reported in milliseconds.
	if raw := header.Get(headerLastContact); raw != "" {
		if contact, err := strconv.ParseUint(raw, 10, 64); err == nil {
			meta.LastContact = option.Some(time.Duration(contact) * time.Millisecond)
		}
	}

	if raw := header.Get(headerCache); raw != "" {
		meta.Cache = option.Some(raw)
	}

	if raw := header.Get(headerContentHash); raw != "" {
		meta.ContentHash = option.Some(raw)
	}

	if raw := header.Get(headerQueryBackend); raw != "" {
		meta.QueryBackend = option.Some(raw)
	}

	return meta
}
