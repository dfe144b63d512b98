// Package consultest provides an in-memory stand-in for a Consul agent.
// It implements the subset of the KV HTTP API the client exercises,
// including recursive reads, key listings, raw reads, check-and-set and
// the X-Consul-* response headers.
package consultest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/readysettech/consulkv/kv"
)

const kvPrefix = "/v1/kv/"

// entry is one stored key.
type entry struct {
	value       []byte
	flags       uint64
	createIndex uint64
	modifyIndex uint64
	lockIndex   uint64
	session     string
}

// Server is a fake Consul agent backed by an in-memory map.
type Server struct {
	httpServer *httptest.Server
	token      string

	mu    sync.Mutex
	index uint64
	data  map[string]*entry
}

// Option configures a Server.
type Option func(*Server)

// WithToken makes the server reject requests that do not carry the
// given ACL token.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// New starts a fake agent and registers its shutdown with t.Cleanup.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	srv := &Server{
		index: 1,
		data:  map[string]*entry{},
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.httpServer = httptest.NewServer(http.HandlerFunc(srv.handle))
	t.Cleanup(srv.httpServer.Close)

	return srv
}

// URL returns the agent address to point a client at.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Len returns the number of stored keys.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.data)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if s.token != "" && r.Header.Get("X-Consul-Token") != s.token {
		http.Error(w, "Permission denied", http.StatusForbidden)

		return
	}

	if !strings.HasPrefix(r.URL.Path, kvPrefix) {
		http.NotFound(w, r)

		return
	}

	key := strings.TrimPrefix(r.URL.Path, kvPrefix)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r, key)
	case http.MethodPut:
		s.handlePut(w, r, key)
	case http.MethodDelete:
		s.handleDelete(w, r, key)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// writeMeta emulates the agent's query metadata headers.
func (s *Server) writeMeta(w http.ResponseWriter) {
	header := w.Header()
	header.Set("X-Consul-Index", strconv.FormatUint(s.index, 10))
	header.Set("X-Consul-KnownLeader", "true")
	header.Set("X-Consul-LastContact", "0")
	header.Set("X-Consul-Default-ACL-Policy", "allow")
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, key string) {
	query := r.URL.Query()

	switch {
	case query.Has("keys"):
		s.listKeys(w, key, query.Get("separator"))
	case query.Has("raw"):
		s.readRaw(w, key)
	case query.Has("recurse"):
		s.readPairs(w, s.keysUnder(key))
	default:
		if _, ok := s.data[key]; !ok {
			s.writeMeta(w)
			w.WriteHeader(http.StatusNotFound)

			return
		}

		s.readPairs(w, []string{key})
	}
}

// keysUnder returns the sorted keys sharing the given prefix.
func (s *Server) keysUnder(prefix string) []string {
	keys := make([]string, 0, len(s.data))

	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	return keys
}

func (s *Server) listKeys(w http.ResponseWriter, prefix, separator string) {
	keys := s.keysUnder(prefix)
	if len(keys) == 0 {
		s.writeMeta(w)
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if separator != "" {
		keys = truncateAtSeparator(keys, prefix, separator)
	}

	s.writeMeta(w)
	writeJSON(w, keys)
}

// truncateAtSeparator collapses keys to unique prefixes ending at the
// first separator past the listing prefix, matching agent behaviour.
func truncateAtSeparator(keys []string, prefix, separator string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(keys))

	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		if i := strings.Index(rest, separator); i >= 0 {
			key = prefix + rest[:i+len(separator)]
		}

		if !seen[key] {
			seen[key] = true

			out = append(out, key)
		}
	}

	return out
}

func (s *Server) readRaw(w http.ResponseWriter, key string) {
	ent, ok := s.data[key]
	if !ok {
		s.writeMeta(w)
		w.WriteHeader(http.StatusNotFound)

		return
	}

	s.writeMeta(w)
	w.Write(ent.value) //nolint:errcheck
}

func (s *Server) readPairs(w http.ResponseWriter, keys []string) {
	if len(keys) == 0 {
		s.writeMeta(w)
		w.WriteHeader(http.StatusNotFound)

		return
	}

	pairs := make([]kv.Pair, 0, len(keys))
	for _, k := range keys {
		ent := s.data[k]
		pairs = append(pairs, kv.Pair{
			PairMeta: kv.PairMeta{
				Key:         k,
				CreateIndex: ent.createIndex,
				ModifyIndex: ent.modifyIndex,
				LockIndex:   ent.lockIndex,
				Flags:       ent.flags,
				Session:     ent.session,
			},
			Value: ent.value,
		})
	}

	s.writeMeta(w)
	writeJSON(w, pairs)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request, key string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	query := r.URL.Query()
	ent, exists := s.data[key]

	if casRaw := query.Get("cas"); casRaw != "" {
		cas, err := strconv.ParseUint(casRaw, 10, 64)
		if err != nil {
			http.Error(w, "invalid cas", http.StatusBadRequest)

			return
		}

		failed := (cas == 0 && exists) || (cas != 0 && (!exists || ent.modifyIndex != cas))
		if failed {
			writeJSON(w, false)

			return
		}
	}

	var flags uint64
	if flagsRaw := query.Get("flags"); flagsRaw != "" {
		flags, err = strconv.ParseUint(flagsRaw, 10, 64)
		if err != nil {
			http.Error(w, "invalid flags", http.StatusBadRequest)

			return
		}
	}

	s.index++

	if !exists {
		ent = &entry{createIndex: s.index}
		s.data[key] = ent
	}

	ent.value = body
	ent.flags = flags
	ent.modifyIndex = s.index

	if session := query.Get("acquire"); session != "" {
		ent.session = session
		ent.lockIndex++
	}

	if query.Get("release") != "" {
		ent.session = ""
	}

	writeJSON(w, true)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, key string) {
	query := r.URL.Query()

	if casRaw := query.Get("cas"); casRaw != "" {
		cas, err := strconv.ParseUint(casRaw, 10, 64)
		if err != nil {
			http.Error(w, "invalid cas", http.StatusBadRequest)

			return
		}

		ent, exists := s.data[key]
		if cas != 0 && (!exists || ent.modifyIndex != cas) {
			writeJSON(w, false)

			return
		}
	}

	if query.Has("recurse") {
		for _, k := range s.keysUnder(key) {
			delete(s.data, k)
		}
	} else {
		delete(s.data, key)
	}

	s.index++

	writeJSON(w, true)
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Write(data) //nolint:errcheck
}
