package observability

import (
	"context"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Call outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeProtocol  = "protocol"
	OutcomeTransport = "transport"
)

// Call tracks one outbound REST call: its span, timing and metrics.
type Call struct {
	Method    string
	Target    string
	RequestID string
	StartTime time.Time

	span    trace.Span
	metrics *ClientMetrics
}

// StartCall starts a client span for method and target and records the call
// start. metrics may be nil.
func StartCall(ctx context.Context, tracer trace.Tracer, metrics *ClientMetrics, method string, target *url.URL, requestID string) (context.Context, *Call) {
	c := &Call{
		Method:    method,
		RequestID: requestID,
		StartTime: time.Now(),
		metrics:   metrics,
	}

	attrs := []attribute.KeyValue{
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrRequestID, requestID),
	}
	if target != nil {
		c.Target = redact(target)
		attrs = append(attrs,
			attribute.String(AttrURLFull, c.Target),
			attribute.String(AttrServerAddress, target.Hostname()),
		)
	}

	ctx, c.span = tracer.Start(ctx, SpanHTTPClient,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	if metrics != nil {
		metrics.RecordStart(ctx, method)
	}
	return ctx, c
}

// End finishes the call. status is 0 when no response was obtained; errCode
// is the machine-readable failure code, empty on success.
func (c *Call) End(ctx context.Context, status int, outcome, errCode string, err error) {
	d := c.Duration()

	if status > 0 {
		c.span.SetAttributes(attribute.Int(AttrHTTPStatusCode, status))
	}
	c.span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrDurationMs, d.Milliseconds()),
	)
	if err != nil {
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
		if errCode != "" {
			c.span.SetAttributes(attribute.String(AttrErrorCode, errCode))
		}
	}
	c.span.End()

	if c.metrics != nil {
		c.metrics.RecordEnd(ctx, c.Method, status, outcome, d)
	}
}

// Duration returns the elapsed time since the call started.
func (c *Call) Duration() time.Duration {
	return time.Since(c.StartTime)
}

// redact strips user info from u so credentials never reach telemetry.
func redact(u *url.URL) string {
	if u.User == nil {
		return u.String()
	}
	clone := *u
	clone.User = nil
	return clone.String()
}
