package marshaller

import (
	"gopkg.in/yaml.v3"
)

// TypedYAMLMarshaller is a generic YAML marshaller for typed objects.
type TypedYAMLMarshaller[T any] struct{}

// NewTypedYAMLMarshaller creates a new TypedYAMLMarshaller for the
// specified type.
func NewTypedYAMLMarshaller[T any]() TypedYAMLMarshaller[T] {
	return TypedYAMLMarshaller[T]{}
}

// Marshal serializes the typed data to YAML format.
func (m TypedYAMLMarshaller[T]) Marshal(data T) ([]byte, error) {
	marshalled, err := yaml.Marshal(data)
	if err != nil {
		return []byte{}, errMarshal("yaml", err)
	}

	return marshalled, nil
}

// Unmarshal deserializes YAML data into a typed object.
func (m TypedYAMLMarshaller[T]) Unmarshal(data []byte) (T, error) {
	var out T

	err := yaml.Unmarshal(data, &out)
	if err != nil {
		return zero[T](), errUnmarshal("yaml", err)
	}

	return out, nil
}
