package httpclient

import (
	"bufio"
	"context"
	"encoding/pem"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/reststack/errors"
)

func newRequest(t *testing.T, method, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestTransport_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/users/123" {
			t.Errorf("expected /users/123, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Alice"}`))
	}))
	defer srv.Close()

	tr, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tr.Close()

	resp, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, srv.URL+"/users/123"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 || !resp.IsSuccess() {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Reason != "OK" {
		t.Errorf("expected reason OK, got %q", resp.Reason)
	}
	if resp.ContentType() != "application/json" {
		t.Errorf("unexpected content type %q", resp.ContentType())
	}
	if string(resp.Body) != `{"name":"Alice"}` {
		t.Errorf("unexpected body %s", resp.Body)
	}
	if resp.Err() != nil {
		t.Errorf("expected no error for 2xx, got %v", resp.Err())
	}
}

func TestTransport_Do_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	tr, _ := New(Config{})
	resp, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 404 || resp.IsSuccess() {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if !errors.IsProtocol(resp.Err()) {
		t.Errorf("expected protocol error, got %v", resp.Err())
	}
	if !strings.Contains(resp.Err().Error(), "Not Found") {
		t.Errorf("expected reason phrase in %q", resp.Err().Error())
	}
}

// A raw listener lets the test send a status line with a custom reason phrase,
// which net/http servers never do.
func TestTransport_Do_CustomReasonPhrase(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		_, _ = conn.Write([]byte("HTTP/1.1 418 Widget Is A Teapot\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"))
	}()

	tr, _ := New(Config{})
	resp, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, "http://"+ln.Addr().String()+"/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 418 {
		t.Errorf("expected 418, got %d", resp.StatusCode)
	}
	if resp.Reason != "Widget Is A Teapot" {
		t.Errorf("expected custom reason, got %q", resp.Reason)
	}
}

func TestTransport_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr, _ := New(Config{})
	_, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, url))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.CodeOf(err) != errors.ErrCodeConnectionFailed {
		t.Errorf("expected CONNECTION_FAILED, got %v", err)
	}
}

func TestTransport_Do_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tr, _ := New(Config{Timeout: 50 * time.Millisecond})
	_, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if !errors.IsTimeout(err) {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
}

func TestTransport_Do_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr, _ := New(Config{})
	_, err := tr.Do(ctx, newRequest(t, http.MethodGet, srv.URL))
	if errors.CodeOf(err) != errors.ErrCodeCanceled {
		t.Errorf("expected CANCELED, got %v", err)
	}
}

func TestTransport_UserAgent(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	tr, _ := New(Config{UserAgent: "reststack/test"})
	if _, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, srv.URL)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Load() != "reststack/test" {
		t.Errorf("expected default user agent, got %v", got.Load())
	}

	req := newRequest(t, http.MethodGet, srv.URL)
	req.Header.Set("User-Agent", "caller/1.0")
	if _, err := tr.Do(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Load() != "caller/1.0" {
		t.Errorf("expected caller user agent to win, got %v", got.Load())
	}
}

type closingStub struct {
	calls  atomic.Int32
	closes atomic.Int32
}

func (s *closingStub) RoundTrip(r *http.Request) (*http.Response, error) {
	s.calls.Add(1)
	return &http.Response{
		StatusCode: http.StatusAccepted,
		Status:     "202 Queued For Later",
		Header:     http.Header{},
		Body:       http.NoBody,
		Request:    r,
	}, nil
}

func (s *closingStub) Close() error {
	s.closes.Add(1)
	return nil
}

func TestTransport_WithRoundTripper(t *testing.T) {
	stub := &closingStub{}
	tr, err := New(Config{}, WithRoundTripper(stub))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, "http://stub.invalid/x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted || resp.Reason != "Queued For Later" {
		t.Errorf("unexpected response %d %q", resp.StatusCode, resp.Reason)
	}
	if stub.calls.Load() != 1 {
		t.Errorf("expected stub to be used once, got %d", stub.calls.Load())
	}
	if tr.Unwrap().Transport != stub {
		t.Error("expected the custom round tripper on the client")
	}
}

func TestTransport_WithClient(t *testing.T) {
	hc := &http.Client{Transport: &closingStub{}}
	tr, err := New(Config{}, WithClient(hc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Unwrap() != hc {
		t.Error("expected the supplied client")
	}
}

func TestTransport_CloseIsIdempotent(t *testing.T) {
	stub := &closingStub{}
	tr, _ := New(Config{}, WithRoundTripper(stub))

	for i := 0; i < 3; i++ {
		if err := tr.Close(); err != nil {
			t.Fatalf("Close() #%d error = %v", i, err)
		}
	}
	if stub.closes.Load() != 1 {
		t.Errorf("expected round tripper closed once, got %d", stub.closes.Load())
	}
	if !tr.Closed() {
		t.Error("expected Closed() = true")
	}

	_, err := tr.Do(context.Background(), newRequest(t, http.MethodGet, "http://stub.invalid/x"))
	if errors.CodeOf(err) != errors.ErrCodeClientClosed {
		t.Errorf("expected CLIENT_CLOSED, got %v", err)
	}
	if stub.calls.Load() != 0 {
		t.Error("closed transport must not send requests")
	}
}

func TestTransport_TLS_CAFile(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(caFile, pemBytes, 0o600); err != nil {
		t.Fatalf("write CA: %v", err)
	}

	untrusted, _ := New(Config{})
	_, err := untrusted.Do(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if errors.CodeOf(err) != errors.ErrCodeConnectionFailed {
		t.Errorf("expected CONNECTION_FAILED without CA, got %v", err)
	}

	trusted, err := New(Config{TLS: &TLSConfig{CAFile: caFile}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := trusted.Do(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Body) != "secure" {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestReasonPhrase(t *testing.T) {
	tests := []struct {
		status string
		code   int
		want   string
	}{
		{"404 Not Found", 404, "Not Found"},
		{"404 Widget Missing", 404, "Widget Missing"},
		{"404", 404, "Not Found"},
		{"", 500, "Internal Server Error"},
		{" 201  Created ", 201, "Created"},
	}
	for _, tc := range tests {
		if got := ReasonPhrase(tc.status, tc.code); got != tc.want {
			t.Errorf("ReasonPhrase(%q, %d) = %q, want %q", tc.status, tc.code, got, tc.want)
		}
	}
}
