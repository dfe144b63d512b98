package api

import (
	"net/url"
)

// Request is an immutable descriptor of a single HTTP call against the
// store's versioned API. Instances are produced by the per-operation
// request builders and consumed exactly once by Exec or ExecRaw.
type Request struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

// NewRequest creates a request descriptor.
// The path is relative to the API version prefix, e.g. "kv/web/config".
func NewRequest(method, path string, query url.Values, body []byte) Request {
	return Request{
		method: method,
		path:   path,
		query:  cloneValues(query),
		body:   body,
	}
}

// Method returns the HTTP method of the request.
func (r Request) Method() string {
	return r.method
}

// Path returns the request path relative to the API version prefix.
func (r Request) Path() string {
	return r.path
}

// Query returns a copy of the query parameters.
func (r Request) Query() url.Values {
	return cloneValues(r.query)
}

// Body returns the request body, nil when the request has none.
func (r Request) Body() []byte {
	return r.body
}

func cloneValues(values url.Values) url.Values {
	if values == nil {
		return url.Values{}
	}

	out := make(url.Values, len(values))
	for k, vs := range values {
		out[k] = append([]string(nil), vs...)
	}

	return out
}
