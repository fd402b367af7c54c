package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/kbukum/reststack/errors"
)

// Option configures a Transport.
type Option func(*Transport)

// WithRoundTripper makes the transport send requests through rt instead of a
// clone of http.DefaultTransport. rt is closed with the transport when it
// implements io.Closer.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.roundTripper = rt
	}
}

// WithClient uses c as-is. Config timeout and TLS settings are not applied to it.
func WithClient(c *http.Client) Option {
	return func(t *Transport) {
		t.httpClient = c
	}
}

// Transport performs HTTP calls over one shared *http.Client. It is safe for
// concurrent use.
type Transport struct {
	httpClient   *http.Client
	roundTripper http.RoundTripper
	config       Config

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New creates a new transport with the given configuration.
func New(cfg Config, opts ...Option) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{config: cfg}
	for _, opt := range opts {
		opt(t)
	}

	if t.httpClient != nil {
		return t, nil
	}

	rt := t.roundTripper
	if rt == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
		rt = transport
	}

	t.httpClient = &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
	}
	return t, nil
}

// Do sends req and reads the complete response. Non-2xx statuses are not
// errors at this layer; failures to obtain a response are returned as
// classified *errors.AppError values.
func (t *Transport) Do(ctx context.Context, req *http.Request) (*Response, error) {
	if t.closed.Load() {
		return nil, errors.ClientClosed()
	}

	req = req.WithContext(ctx)
	if t.config.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.config.UserAgent)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, errors.Transport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport(fmt.Errorf("read response body: %w", err))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Reason:     ReasonPhrase(resp.Status, resp.StatusCode),
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (t *Transport) Unwrap() *http.Client {
	return t.httpClient
}

// Closed reports whether Close has been called.
func (t *Transport) Closed() bool {
	return t.closed.Load()
}

// Close releases idle connections and closes a custom round tripper that
// implements io.Closer. Only the first call has an effect; later calls return
// the first result.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.httpClient.CloseIdleConnections()
		if closer, ok := t.roundTripper.(io.Closer); ok {
			t.closeErr = closer.Close()
		}
	})
	return t.closeErr
}
