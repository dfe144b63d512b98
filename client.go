package consulkv

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-rootcerts"
	"github.com/sirupsen/logrus"

	"github.com/readysettech/consulkv/api"
	"github.com/readysettech/consulkv/internal/options"
)

const (
	// DefaultAddress is the agent address used when neither an option
	// nor the environment provides one.
	DefaultAddress = "http://127.0.0.1:8500"

	// EnvAddress is the environment variable holding the agent address.
	EnvAddress = "CONSUL_HTTP_ADDR"
	// EnvToken is the environment variable holding the ACL token.
	EnvToken = "CONSUL_HTTP_TOKEN"

	apiVersion  = "v1"
	tokenHeader = "X-Consul-Token" //nolint:gosec // header name, not a credential
)

// ErrInvalidAddress is returned by New when the agent address does not
// parse or uses a scheme other than http or https.
var ErrInvalidAddress = errors.New("address must be a valid http or https URL")

// config collects the client configuration assembled from Options.
type config struct {
	address    string
	token      string
	datacenter string
	namespace  string
	timeout    time.Duration
	httpClient *http.Client
	caFile     string
	caPath     string
	caPEM      []byte
	logger     logrus.FieldLogger
}

// Option configures a Client.
type Option = options.Callback[config]

// WithAddress sets the agent address, e.g. "http://127.0.0.1:8500".
// Defaults to the CONSUL_HTTP_ADDR environment variable, then to
// DefaultAddress.
func WithAddress(address string) Option {
	return func(cfg *config) {
		cfg.address = address
	}
}

// WithToken sets the ACL token sent with every request. Defaults to the
// CONSUL_HTTP_TOKEN environment variable.
func WithToken(token string) Option {
	return func(cfg *config) {
		cfg.token = token
	}
}

// WithDatacenter sets a default datacenter merged into every request
// that does not name one itself.
func WithDatacenter(datacenter string) Option {
	return func(cfg *config) {
		cfg.datacenter = datacenter
	}
}

// WithNamespace sets a default namespace merged into every request that
// does not name one itself.
func WithNamespace(namespace string) Option {
	return func(cfg *config) {
		cfg.namespace = namespace
	}
}

// WithTimeout sets an overall timeout on every request. By default no
// timeout is enforced; cancellation is left to the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = timeout
	}
}

// WithHTTPClient supplies a fully configured HTTP client. It overrides
// WithTimeout and the TLS options.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = client
	}
}

// WithCAFile sets a PEM file holding the CA certificates used to verify
// the agent's TLS certificate.
func WithCAFile(path string) Option {
	return func(cfg *config) {
		cfg.caFile = path
	}
}

// WithCAPath sets a directory of PEM files holding the CA certificates
// used to verify the agent's TLS certificate.
func WithCAPath(path string) Option {
	return func(cfg *config) {
		cfg.caPath = path
	}
}

// WithCAPEM sets in-memory PEM data holding the CA certificates used to
// verify the agent's TLS certificate.
func WithCAPEM(pem []byte) Option {
	return func(cfg *config) {
		cfg.caPEM = pem
	}
}

// WithLogger sets the logger used to trace requests at debug level.
// By default nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Client is a handle to one Consul agent. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	address    *url.URL
	token      string
	datacenter string
	namespace  string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

var _ api.Client = (*Client)(nil)

// New creates a client from the given options.
func New(opts ...Option) (*Client, error) {
	cfg := options.Apply(opts)

	if cfg.address == "" {
		cfg.address = os.Getenv(EnvAddress)
	}

	if cfg.address == "" {
		cfg.address = DefaultAddress
	}

	if cfg.token == "" {
		cfg.token = os.Getenv(EnvToken)
	}

	address, err := url.Parse(cfg.address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}

	if address.Scheme != "http" && address.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidAddress, address.Scheme)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient, err = newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &Client{
		address:    address,
		token:      cfg.token,
		datacenter: cfg.datacenter,
		namespace:  cfg.namespace,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// newHTTPClient builds the default pooled HTTP client, configuring TLS
// trust when any CA material was supplied.
func newHTTPClient(cfg config) (*http.Client, error) {
	transport := cleanhttp.DefaultPooledTransport()

	if cfg.caFile != "" || cfg.caPath != "" || len(cfg.caPEM) > 0 {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

		err := rootcerts.ConfigureTLS(tlsConfig, &rootcerts.Config{
			CAFile:        cfg.caFile,
			CAPath:        cfg.caPath,
			CACertificate: cfg.caPEM,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS trust: %w", err)
		}

		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.timeout,
	}, nil
}

// Address returns the agent address the client talks to.
func (c *Client) Address() string {
	return c.address.String()
}

// Do implements api.Client. It builds the full request URL under the
// versioned API path, merges the client's default datacenter and
// namespace into the query, attaches the ACL token and executes the
// request.
func (c *Client) Do(ctx context.Context, req api.Request) (*http.Response, error) {
	target := *c.address
	target.Path = strings.TrimSuffix(target.Path, "/") + "/" + apiVersion + "/" + req.Path()

	query := req.Query()
	if c.datacenter != "" && query.Get("dc") == "" {
		query.Set("dc", c.datacenter)
	}

	if c.namespace != "" && query.Get("ns") == "" {
		query.Set("ns", c.namespace)
	}

	target.RawQuery = query.Encode()

	var body io.Reader
	if b := req.Body(); b != nil {
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if c.token != "" {
		httpReq.Header.Set(tokenHeader, c.token)
	}

	c.logger.WithFields(logrus.Fields{
		"method": req.Method(),
		"path":   req.Path(),
	}).Debug("executing request")

	return c.httpClient.Do(httpReq)
}
