package consulkv_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readysettech/consulkv"
	"github.com/readysettech/consulkv/api"
	"github.com/readysettech/consulkv/internal/consultest"
	"github.com/readysettech/consulkv/kv"
)

func TestNew_Defaults(t *testing.T) { //nolint:paralleltest // mutates the environment
	t.Setenv(consulkv.EnvAddress, "")
	t.Setenv(consulkv.EnvToken, "")

	client, err := consulkv.New()
	require.NoError(t, err)
	assert.Equal(t, consulkv.DefaultAddress, client.Address())
}

func TestNew_AddressFromEnvironment(t *testing.T) { //nolint:paralleltest // mutates the environment
	t.Setenv(consulkv.EnvAddress, "http://consul.internal:8500")

	client, err := consulkv.New()
	require.NoError(t, err)
	assert.Equal(t, "http://consul.internal:8500", client.Address())
}

func TestNew_OptionBeatsEnvironment(t *testing.T) { //nolint:paralleltest // mutates the environment
	t.Setenv(consulkv.EnvAddress, "http://consul.internal:8500")

	client, err := consulkv.New(consulkv.WithAddress("http://other:8500"))
	require.NoError(t, err)
	assert.Equal(t, "http://other:8500", client.Address())
}

func TestNew_InvalidAddress(t *testing.T) {
	t.Parallel()

	_, err := consulkv.New(consulkv.WithAddress("://bad"))
	require.ErrorIs(t, err, consulkv.ErrInvalidAddress)

	_, err = consulkv.New(consulkv.WithAddress("unix:///tmp/agent.sock"))
	require.ErrorIs(t, err, consulkv.ErrInvalidAddress)
}

func TestClient_SendsToken(t *testing.T) {
	t.Parallel()

	server := consultest.New(t, consultest.WithToken("secret-token"))

	denied, err := consulkv.New(consulkv.WithAddress(server.URL()))
	require.NoError(t, err)

	_, err = kv.Set(context.Background(), denied, "key", []byte("v"))
	require.Error(t, err)

	var respErr api.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusForbidden, respErr.StatusCode)

	allowed, err := consulkv.New(
		consulkv.WithAddress(server.URL()),
		consulkv.WithToken("secret-token"),
	)
	require.NoError(t, err)

	res, err := kv.Set(context.Background(), allowed, "key", []byte("v"))
	require.NoError(t, err)
	assert.True(t, res.Value)
}

func TestClient_MergesDefaultDatacenterAndNamespace(t *testing.T) {
	t.Parallel()

	var query map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()

		_, _ = w.Write([]byte("true"))
	}))
	defer server.Close()

	client, err := consulkv.New(
		consulkv.WithAddress(server.URL),
		consulkv.WithDatacenter("dc1"),
		consulkv.WithNamespace("team1"),
	)
	require.NoError(t, err)

	_, err = kv.Set(context.Background(), client, "key", []byte("v"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dc1"}, query["dc"])
	assert.Equal(t, []string{"team1"}, query["ns"])

	// A per-call datacenter takes precedence over the client default.
	_, err = kv.Set(context.Background(), client, "key", []byte("v"), kv.WithDatacenter("dc9"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dc9"}, query["dc"])
}

func TestClient_VersionedPath(t *testing.T) {
	t.Parallel()

	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path

		_, _ = w.Write([]byte("true"))
	}))
	defer server.Close()

	client, err := consulkv.New(consulkv.WithAddress(server.URL + "/"))
	require.NoError(t, err)

	_, err = kv.Set(context.Background(), client, "web/config", []byte("v"))
	require.NoError(t, err)
	assert.Equal(t, "/v1/kv/web/config", path)
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := consulkv.New(consulkv.WithAddress(server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = kv.Read(ctx, client, "key")
	require.Error(t, err)

	var reqErr api.RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestClient_LogsRequests(t *testing.T) {
	t.Parallel()

	server := consultest.New(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)

	hook := &recordingHook{}
	logger.AddHook(hook)

	client, err := consulkv.New(
		consulkv.WithAddress(server.URL()),
		consulkv.WithLogger(logger),
	)
	require.NoError(t, err)

	_, err = kv.Set(context.Background(), client, "key", []byte("v"))
	require.NoError(t, err)

	require.NotEmpty(t, hook.entries)
	assert.Equal(t, http.MethodPut, hook.entries[0].Data["method"])
	assert.Equal(t, "kv/key", hook.entries[0].Data["path"])
}

// recordingHook captures log entries for assertions.
type recordingHook struct {
	entries []*logrus.Entry
}

func (h *recordingHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *recordingHook) Fire(entry *logrus.Entry) error {
	h.entries = append(h.entries, entry)

	return nil
}
