package api_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readysettech/consulkv/api"
)

// testClient executes requests against a test server with a plain HTTP
// client.
type testClient struct {
	base string
}

func (c testClient) Do(ctx context.Context, req api.Request) (*http.Response, error) {
	target := c.base + "/v1/" + req.Path()
	if query := req.Query().Encode(); query != "" {
		target += "?" + query
	}

	var body *bytes.Reader
	if b := req.Body(); b != nil {
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), target, body)
	if err != nil {
		return nil, err
	}

	return http.DefaultClient.Do(httpReq)
}

func TestExec_DecodesPayloadAndMetadata(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/kv/web/config", r.URL.Path)

		header := w.Header()
		header.Set("X-Consul-Index", "42")
		header.Set("X-Consul-KnownLeader", "true")
		header.Set("X-Consul-LastContact", "15")
		header.Set("X-Cache", "HIT")
		header.Set("X-Consul-Default-ACL-Policy", "allow")

		_, _ = w.Write([]byte(`["a","b"]`))
	}))
	defer server.Close()

	req := api.NewRequest(http.MethodGet, "kv/web/config", nil, nil)

	res, err := api.Exec[[]string](context.Background(), testClient{base: server.URL}, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, res.Value)
	require.True(t, res.Index.IsSome())
	assert.Equal(t, uint64(42), res.Index.Unwrap())
	require.True(t, res.KnownLeader.IsSome())
	assert.True(t, res.KnownLeader.Unwrap())
	require.True(t, res.LastContact.IsSome())
	assert.Equal(t, 15*time.Millisecond, res.LastContact.Unwrap())
	require.True(t, res.Cache.IsSome())
	assert.Equal(t, "HIT", res.Cache.Unwrap())
	assert.False(t, res.ContentHash.IsSome())
	assert.False(t, res.QueryBackend.IsSome())
	assert.Equal(t, "allow", res.DefaultACLPolicy)
}

func TestExec_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Permission denied", http.StatusForbidden)
	}))
	defer server.Close()

	req := api.NewRequest(http.MethodGet, "kv/secret", nil, nil)

	_, err := api.Exec[bool](context.Background(), testClient{base: server.URL}, req)
	require.Error(t, err)

	var respErr api.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusForbidden, respErr.StatusCode)
	assert.Equal(t, "Permission denied", respErr.Body)
}

func TestExec_MalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	req := api.NewRequest(http.MethodGet, "kv/key", nil, nil)

	_, err := api.Exec[bool](context.Background(), testClient{base: server.URL}, req)
	require.Error(t, err)

	var decodeErr api.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Error(t, decodeErr.Unwrap())
}

func TestExec_TransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse all connections

	req := api.NewRequest(http.MethodGet, "kv/key", nil, nil)

	_, err := api.Exec[bool](context.Background(), testClient{base: server.URL}, req)
	require.Error(t, err)

	var reqErr api.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Error(t, reqErr.Unwrap())
}

func TestExecRaw_ReturnsBodyVerbatim(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Consul-Index", "7")
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	req := api.NewRequest(http.MethodGet, "kv/key", nil, nil)

	res, err := api.ExecRaw(context.Background(), testClient{base: server.URL}, req)
	require.NoError(t, err)
	assert.Equal(t, []byte("not json at all"), res.Value)
	require.True(t, res.Index.IsSome())
	assert.Equal(t, uint64(7), res.Index.Unwrap())
}

func TestExec_SendsBody(t *testing.T) {
	t.Parallel()

	var received []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		received, err = io.ReadAll(r.Body)
		require.NoError(t, err)

		_, _ = w.Write([]byte("true"))
	}))
	defer server.Close()

	req := api.NewRequest(http.MethodPut, "kv/key", nil, []byte("payload"))

	res, err := api.Exec[bool](context.Background(), testClient{base: server.URL}, req)
	require.NoError(t, err)
	assert.True(t, res.Value)
	assert.Equal(t, []byte("payload"), received)
}
