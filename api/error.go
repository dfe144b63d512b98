package api

import (
	"fmt"
)

// RequestError represents a transport-level failure: the HTTP request
// could not be sent or no response was received.
type RequestError struct {
	Err error
}

// NewRequestError returns a new transport error wrapping err.
func NewRequestError(err error) error {
	if err == nil {
		return nil
	}

	return RequestError{Err: err}
}

// Error returns the error message.
func (e RequestError) Error() string {
	return fmt.Sprintf("request failed: %s", e.Err)
}

func (e RequestError) Unwrap() error {
	return e.Err
}

// ResponseError represents a response with a non-success HTTP status.
// Body holds the response body returned by the store, typically a short
// diagnostic message.
type ResponseError struct {
	StatusCode int
	Body       string
}

// NewResponseError returns a new status error for the given code and body.
func NewResponseError(statusCode int, body string) error {
	return ResponseError{
		StatusCode: statusCode,
		Body:       body,
	}
}

// Error returns the error message.
func (e ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected response status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected response status %d: %s", e.StatusCode, e.Body)
}

// DecodeError represents a failure to decode a response body into the
// expected payload type.
type DecodeError struct {
	Err error
}

// NewDecodeError returns a new decode error wrapping err.
func NewDecodeError(err error) error {
	if err == nil {
		return nil
	}

	return DecodeError{Err: err}
}

// Error returns the error message.
func (e DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response body: %s", e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}
