package kv

// PairMeta holds the store-assigned metadata of a stored key. It is
// embedded by both Pair and TypedPair so that converting between the
// two preserves every field without copying them one by one.
type PairMeta struct {
	// Key is the full path of the entry.
	Key string
	// CreateIndex is the index at which the entry was created.
	CreateIndex uint64
	// ModifyIndex is the index of the last modification of the entry.
	ModifyIndex uint64
	// LockIndex is the number of times the entry was locked.
	LockIndex uint64
	// Flags is the opaque value attached by the writer.
	Flags uint64
	// Session is the session holding the entry's lock, if any.
	Session string `json:",omitempty"`
	// Namespace is the namespace the entry lives in, if any.
	Namespace string `json:",omitempty"`
}

// Pair is a snapshot of a stored key as returned by the store. The
// value is nil when the key holds no data.
type Pair struct {
	PairMeta

	// Value is the raw stored value. The store transmits it base64
	// encoded; decoding is handled by the JSON layer.
	Value []byte
}

// TypedPair is a Pair whose value has been deserialized into T.
// Returned by ReadJSON.
type TypedPair[T any] struct {
	PairMeta

	// Value is the deserialized stored value.
	Value T
}
