// Package marshaller defines typed (de)serialization of stored values.
//
// The kv package uses the JSON marshaller for its typed operations; the
// typed package accepts any TypedMarshaller so values can be stored in
// other formats.
package marshaller

// TypedMarshaller is a generic interface for typed marshalling
// operations.
type TypedMarshaller[T any] interface {
	Marshal(data T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

func zero[T any]() T {
	var out T

	return out
}
