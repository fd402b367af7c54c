package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
)

// StubResponse is the reply a StubTransport produces. Reason is sent
// verbatim in the status line, so tests can use phrases net/http servers
// never emit.
type StubResponse struct {
	StatusCode int
	Reason     string
	Header     http.Header
	Body       []byte
}

// RecordedRequest is a request seen by a StubTransport, body included.
type RecordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// StubTransport is an http.RoundTripper that answers without a network.
// It counts calls and Close invocations.
type StubTransport struct {
	fn func(*http.Request) (StubResponse, error)

	calls  atomic.Int64
	closes atomic.Int64

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewStubTransport answers every request with resp.
func NewStubTransport(resp StubResponse) *StubTransport {
	return NewStubTransportFunc(func(*http.Request) (StubResponse, error) { return resp, nil })
}

// NewStubTransportFunc answers each request with fn.
func NewStubTransportFunc(fn func(*http.Request) (StubResponse, error)) *StubTransport {
	return &StubTransport{fn: fn}
}

// NewFailingTransport fails every request with err.
func NewFailingTransport(err error) *StubTransport {
	return NewStubTransportFunc(func(*http.Request) (StubResponse, error) { return StubResponse{}, err })
}

// RoundTrip implements http.RoundTripper.
func (s *StubTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	s.calls.Add(1)

	rec := RecordedRequest{Method: r.Method, URL: r.URL.String(), Header: r.Header.Clone()}
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, err
		}
		rec.Body = b
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	resp, err := s.fn(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	reason := resp.Reason
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	header := resp.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, reason),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       r,
	}, nil
}

// Close records the call. It always succeeds.
func (s *StubTransport) Close() error {
	s.closes.Add(1)
	return nil
}

// Calls returns the number of requests handled.
func (s *StubTransport) Calls() int {
	return int(s.calls.Load())
}

// Closes returns the number of Close calls.
func (s *StubTransport) Closes() int {
	return int(s.closes.Load())
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *StubTransport) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *StubTransport) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// JSONResponse is a StubResponse with a JSON body and Content-Type.
func JSONResponse(status int, body string) StubResponse {
	return StubResponse{
		StatusCode: status,
		Header: http.Header{
			"Content-Type":   {"application/json; charset=utf-8"},
			"Content-Length": {strconv.Itoa(len(body))},
		},
		Body: []byte(body),
	}
}
