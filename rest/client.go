package rest

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/reststack/errors"
	"github.com/kbukum/reststack/httpclient"
	"github.com/kbukum/reststack/logger"
	"github.com/kbukum/reststack/observability"
	"github.com/kbukum/reststack/version"
)

// DefaultRequestIDHeader carries the per-call correlation id.
const DefaultRequestIDHeader = "X-Request-ID"

// Client is the base of every REST client. It owns the transport, the
// endpoint and the default headers; the verb functions (Get, Put, Post,
// Delete and their Async forms) issue calls through it.
//
// Domain clients embed *Client:
//
//	type WidgetClient struct{ *rest.Client }
//
//	func (c *WidgetClient) Widget(ctx context.Context, id int) rest.Response[Widget] {
//	    return rest.Get(ctx, c.Client, fmt.Sprintf("/widgets/%d", id), widgetJSON)
//	}
//
// A Client is safe for concurrent use.
type Client struct {
	endpoint        *url.URL
	transport       *httpclient.Transport
	headers         *Headers
	log             *logger.Logger
	tracer          trace.Tracer
	metrics         *observability.ClientMetrics
	requestIDHeader string
}

type options struct {
	http            httpclient.Config
	roundTripper    http.RoundTripper
	httpClient      *http.Client
	log             *logger.Logger
	tracerProvider  trace.TracerProvider
	meterProvider   metric.MeterProvider
	headers         http.Header
	requestIDHeader string
}

// Option configures a Client.
type Option func(*options)

// WithTransport sends calls through rt instead of a default transport.
// rt is closed with the client when it implements io.Closer.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.roundTripper = rt }
}

// WithHTTPClient sends calls through hc as-is. Timeout and TLS options do
// not apply to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout bounds each call. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent sent when the headers carry none.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.http.UserAgent = ua
		}
	}
}

// WithTLS configures server verification and client certificates.
func WithTLS(cfg *httpclient.TLSConfig) Option {
	return func(o *options) { o.http.TLS = cfg }
}

// WithHeader adds a default header. It may be repeated.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers.Add(key, value) }
}

// WithLogger logs calls through log. The default discards logs.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithTracerProvider records spans through tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider records metrics through mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithRequestIDHeader changes the correlation header name. An empty name
// stops the client from sending one.
func WithRequestIDHeader(name string) Option {
	return func(o *options) { o.requestIDHeader = name }
}

// New creates a client for an absolute http or https endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.InvalidConfig(fmt.Sprintf("invalid endpoint %q", endpoint)).WithCause(err)
	}
	return NewFromURL(u, opts...)
}

// NewFromURL creates a client for an absolute http or https endpoint. The
// URL is copied.
func NewFromURL(endpoint *url.URL, opts ...Option) (*Client, error) {
	if endpoint == nil {
		return nil, errors.InvalidConfig("endpoint is required")
	}
	if !endpoint.IsAbs() || endpoint.Host == "" {
		return nil, errors.InvalidConfig(fmt.Sprintf("endpoint %q must be an absolute URI", endpoint.String()))
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, errors.InvalidConfig(fmt.Sprintf("endpoint scheme %q is not http or https", endpoint.Scheme))
	}

	o := options{
		http:            httpclient.Config{UserAgent: version.UserAgent()},
		headers:         make(http.Header),
		log:             logger.NewNop(),
		requestIDHeader: DefaultRequestIDHeader,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	var topts []httpclient.Option
	switch {
	case o.httpClient != nil:
		topts = append(topts, httpclient.WithClient(o.httpClient))
	case o.roundTripper != nil:
		topts = append(topts, httpclient.WithRoundTripper(o.roundTripper))
	}
	transport, err := httpclient.New(o.http, topts...)
	if err != nil {
		return nil, errors.InvalidConfig(err.Error()).WithCause(err)
	}

	metrics, err := observability.NewClientMetrics(observability.Meter(o.meterProvider))
	if err != nil {
		return nil, errors.InvalidConfig(err.Error()).WithCause(err)
	}

	ep := *endpoint
	headers := newHeaders()
	for k, vs := range o.headers {
		for _, v := range vs {
			headers.Add(k, v)
		}
	}

	c := &Client{
		endpoint:        &ep,
		transport:       transport,
		headers:         headers,
		log:             o.log.WithComponent("rest").WithFields(logger.Fields("endpoint", ep.Redacted())),
		tracer:          observability.Tracer(o.tracerProvider),
		metrics:         metrics,
		requestIDHeader: o.requestIDHeader,
	}
	return c, nil
}

// NewFromConfig validates cfg and creates a client from it. opts are
// applied after the configured values.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.Endpoint, append(cfg.options(), opts...)...)
}

// Endpoint returns a copy of the base URI.
func (c *Client) Endpoint() *url.URL {
	u := *c.endpoint
	return &u
}

// Headers returns the default header collection. Changes apply to calls
// issued afterwards.
func (c *Client) Headers() *Headers {
	return c.headers
}

// Close releases the transport. It is safe to call more than once; calls
// issued afterwards fail with a CLIENT_CLOSED transport failure.
func (c *Client) Close() error {
	return c.transport.Close()
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.transport.Closed()
}

// Use creates a client for endpoint, passes it to fn and closes it on every
// exit path, including a panic in fn.
func Use(endpoint string, fn func(*Client) error, opts ...Option) (err error) {
	c, err := New(endpoint, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = stderrors.Join(err, c.Close())
	}()
	return fn(c)
}
