// Package consulkv provides a typed Go client for the Consul KV HTTP
// API.
//
// The root package holds the client handle; the actual KV operations
// live in [github.com/readysettech/consulkv/kv]. See the
// [github.com/readysettech/consulkv/typed] package for a typed,
// prefix-scoped view over the store.
package consulkv
