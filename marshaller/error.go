package marshaller

import (
	"fmt"
)

// MarshalError represents a failure to serialize a value. The value
// never left the process: operations that marshal before transmitting
// send nothing when marshalling fails.
type MarshalError struct {
	format string
	parent error
}

func errMarshal(format string, parent error) error {
	if parent == nil {
		return nil
	}

	return MarshalError{format: format, parent: parent}
}

// Unwrap returns the underlying error that caused the marshalling failure.
func (e MarshalError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the marshalling error.
func (e MarshalError) Error() string {
	return fmt.Sprintf("failed to marshal as %s: %s", e.format, e.parent)
}

// UnmarshalError represents a payload that was present but did not
// parse as the requested type.
type UnmarshalError struct {
	format string
	parent error
}

func errUnmarshal(format string, parent error) error {
	if parent == nil {
		return nil
	}

	return UnmarshalError{format: format, parent: parent}
}

// Unwrap returns the underlying error that caused the unmarshalling failure.
func (e UnmarshalError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the unmarshalling error.
func (e UnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal %s: %s", e.format, e.parent)
}
