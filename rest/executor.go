package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/kbukum/reststack/errors"
	"github.com/kbukum/reststack/httpclient"
	"github.com/kbukum/reststack/logger"
	"github.com/kbukum/reststack/observability"
	"github.com/kbukum/reststack/serializer"
)

// payload is an encoded request body.
type payload struct {
	body        []byte
	contentType string
}

// encodeFunc produces the request body; nil means the call sends none.
type encodeFunc func() (payload, error)

// decodeFunc consumes the decoded response text; nil means the body is
// ignored.
type decodeFunc func(text string) error

// exchange is the single implementation behind every verb that decodes a
// response payload.
func exchange[Req, Resp any](ctx context.Context, c *Client, method, target string, body Req, hasBody bool,
	mediaType string, reqS serializer.Serializer[Req], respS serializer.Serializer[Resp]) Response[Resp] {
	if c == nil {
		return FailedWith[Resp](StatusInternalError, errors.New(errors.ErrCodeInvalidConfig, "client is nil"))
	}
	if respS == nil {
		return FailedWith[Resp](StatusInternalError, errors.New(errors.ErrCodeInvalidConfig, "response serializer is nil"))
	}

	var enc encodeFunc
	if hasBody {
		if reqS == nil {
			return FailedWith[Resp](StatusInternalError, errors.New(errors.ErrCodeInvalidConfig, "request serializer is nil"))
		}
		enc = encoder(body, mediaType, reqS)
	}

	var data Resp
	res := c.send(ctx, method, target, enc, respS.Encoding(), func(text string) error {
		v, err := respS.Deserialize(text)
		if err != nil {
			return err
		}
		data = v
		return nil
	})
	if !res.Success {
		return Response[Resp]{Result: res}
	}
	return SucceededWith(data, res.StatusCode)
}

// encoder serializes body with s and transcodes it into s's encoding. The
// Content-Type is mediaType (or the serializer's own media type) with the
// charset of s.
func encoder[T any](body T, mediaType string, s serializer.Serializer[T]) encodeFunc {
	return func() (payload, error) {
		text, err := s.Serialize(body)
		if err != nil {
			return payload{}, err
		}
		b, err := serializer.EncodeText(s.Encoding(), text)
		if err != nil {
			return payload{}, err
		}
		ct, err := contentType(mediaType, s)
		if err != nil {
			return payload{}, err
		}
		return payload{body: b, contentType: ct}, nil
	}
}

// contentType builds "<media type>; charset=<IANA name of s's encoding>".
// An empty mediaType falls back to the serializer's own media type.
func contentType[T any](mediaType string, s serializer.Serializer[T]) (string, error) {
	if mediaType == "" {
		mediaType = "application/octet-stream"
		if mt, ok := s.(serializer.MediaTyper); ok {
			mediaType = mt.MediaType()
		}
	}
	mt, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", fmt.Errorf("invalid media type %q: %w", mediaType, err)
	}
	params["charset"] = serializer.CharsetName(s.Encoding())
	return mime.FormatMediaType(mt, params), nil
}

// send runs one call end to end and folds every failure into the Result.
// Panics raised by serializers or the transport are recovered as transport
// failures.
func (c *Client) send(ctx context.Context, method, target string, enc encodeFunc, respEnc encoding.Encoding, dec decodeFunc) (res Result) {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logger.ContextWithRequestID(ctx, requestID)
	}

	u, resolveErr := c.resolve(target)
	ctx, call := observability.StartCall(ctx, c.tracer, c.metrics, method, u, requestID)

	status := 0
	defer func() {
		if r := recover(); r != nil {
			res = Failed(StatusInternalError, errors.Transport(fmt.Errorf("panic during %s %s: %v", method, target, r)))
		}
		c.observe(ctx, call, status, res)
	}()

	if resolveErr != nil {
		return Failed(StatusInternalError, resolveErr)
	}
	if c.transport.Closed() {
		return Failed(StatusInternalError, errors.ClientClosed())
	}

	var body io.Reader
	var contentType string
	if enc != nil {
		p, err := enc()
		if err != nil {
			return Failed(StatusInternalError, errors.Encode(err))
		}
		body = bytes.NewReader(p.body)
		contentType = p.contentType
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return Failed(StatusInternalError, errors.InvalidTarget(target, err.Error()))
	}
	c.headers.applyTo(req.Header)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.requestIDHeader != "" && req.Header.Get(c.requestIDHeader) == "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}
	observability.InjectHeaders(ctx, req.Header)

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return Failed(StatusInternalError, err)
	}
	status = resp.StatusCode
	if !resp.IsSuccess() {
		return Failed(resp.StatusCode, resp.Err())
	}
	if dec == nil {
		return Succeeded(resp.StatusCode)
	}

	text, err := decodeBody(resp, respEnc)
	if err != nil {
		return Failed(StatusInternalError, errors.Decode(err))
	}
	if err := dec(text); err != nil {
		return Failed(StatusInternalError, errors.Decode(err))
	}
	return Succeeded(resp.StatusCode)
}

// resolve applies RFC 3986 reference resolution against the endpoint.
// Absolute targets are used as given; relative references that name their
// own host are rejected.
func (c *Client) resolve(target string) (*url.URL, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return nil, errors.InvalidTarget(target, err.Error())
	}
	if ref.IsAbs() {
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return nil, errors.InvalidTarget(target, fmt.Sprintf("unsupported scheme %q", ref.Scheme))
		}
		if ref.Host == "" {
			return nil, errors.InvalidTarget(target, "missing host")
		}
		return ref, nil
	}
	if ref.Host != "" {
		return nil, errors.InvalidTarget(target, "relative reference must not name a host")
	}
	return c.endpoint.ResolveReference(ref), nil
}

// decodeBody converts the body to text using the charset the server
// declared, falling back to the serializer's encoding.
func decodeBody(resp *httpclient.Response, fallback encoding.Encoding) (string, error) {
	enc := fallback
	if ct := resp.ContentType(); ct != "" {
		if _, params, err := mime.ParseMediaType(ct); err == nil {
			if name := params["charset"]; name != "" {
				if e := responseEncoding(name); e != nil {
					enc = e
				}
			}
		}
	}
	return serializer.DecodeText(enc, resp.Body)
}

// responseEncoding resolves a declared charset label (e.g. "latin1",
// "UTF-16LE") to an x/text encoding. Unknown labels yield nil.
func responseEncoding(label string) encoding.Encoding {
	_, name := charset.Lookup(label)
	if name == "" {
		return nil
	}
	if enc, err := serializer.LookupEncoding(name); err == nil {
		return enc
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc
	}
	return nil
}

// observe logs the call and closes its telemetry.
func (c *Client) observe(ctx context.Context, call *observability.Call, status int, res Result) {
	outcome := observability.OutcomeSuccess
	switch {
	case res.Success:
	case errors.IsProtocol(res.Err):
		outcome = observability.OutcomeProtocol
	default:
		outcome = observability.OutcomeTransport
	}
	code := string(errors.CodeOf(res.Err))
	call.End(ctx, status, outcome, code, res.Err)

	fields := logger.Fields(
		logger.FieldMethod, call.Method,
		logger.FieldURL, call.Target,
		logger.FieldStatus, res.StatusCode,
		logger.FieldOutcome, outcome,
	)
	fields = logger.MergeWithDuration(fields, call.Duration())
	log := c.log.WithContext(ctx)
	if res.Success {
		log.Debug("rest call completed", fields)
		return
	}
	fields[logger.FieldErrorCode] = code
	log.Warn("rest call failed", logger.MergeWithError(fields, res.Err))
}
