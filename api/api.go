// Package api implements the generic request execution layer shared by
// the endpoint packages. It turns immutable request descriptors into
// HTTP calls and decodes the responses into typed envelopes.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Client executes a single HTTP request against the remote store.
// Implementations must be safe for concurrent use; the canonical
// implementation lives in the consulkv root package.
type Client interface {
	// Do sends the request and returns the raw HTTP response. The
	// response body is not consumed.
	Do(ctx context.Context, req Request) (*http.Response, error)
}

// errorBodyLimit caps how much of a failed response body is retained in
// a ResponseError.
const errorBodyLimit = 4096

// Exec executes the request and JSON-decodes the response body into T.
// It returns a RequestError on transport failure, a ResponseError on a
// non-success status, and a DecodeError when the body does not decode
// into T.
func Exec[T any](ctx context.Context, client Client, req Request) (Response[T], error) {
	body, meta, err := exec(ctx, client, req)
	if err != nil {
		return Response[T]{}, err
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return Response[T]{}, NewDecodeError(err)
	}

	return Response[T]{Value: value, Metadata: meta}, nil
}

// ExecRaw executes the request and returns the response body verbatim.
func ExecRaw(ctx context.Context, client Client, req Request) (Response[[]byte], error) {
	body, meta, err := exec(ctx, client, req)
	if err != nil {
		return Response[[]byte]{}, err
	}

	return Response[[]byte]{Value: body, Metadata: meta}, nil
}

// exec performs the round trip and returns the body and parsed metadata.
func exec(ctx context.Context, client Client, req Request) ([]byte, Metadata, error) {
	httpResp, err := client.Do(ctx, req)
	if err != nil {
		return nil, Metadata{}, NewRequestError(err)
	}
	defer httpResp.Body.Close() //nolint:errcheck

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		diag, _ := io.ReadAll(io.LimitReader(httpResp.Body, errorBodyLimit))

		return nil, Metadata{}, NewResponseError(httpResp.StatusCode, strings.TrimSpace(string(diag)))
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, Metadata{}, NewRequestError(err)
	}

	return body, parseMetadata(httpResp.Header), nil
}
