package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out")
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if New(ErrCodeDecode, "bad body").Retryable {
		t.Error("DECODE_FAILURE should not be retryable")
	}
}

func TestProtocol(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		reason    string
		wantMsg   string
		retryable bool
	}{
		{"reason phrase kept", 404, "Widget Not Found", "Widget Not Found", false},
		{"falls back to status text", 404, "", "Not Found", false},
		{"unknown code", 599, "", "HTTP 599", true},
		{"rate limited", 429, "", "Too Many Requests", true},
		{"server error", 503, "Service Unavailable", "Service Unavailable", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Protocol(tc.status, tc.reason)
			if err.Code != ErrCodeProtocol {
				t.Errorf("expected PROTOCOL_FAILURE, got %s", err.Code)
			}
			if err.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, err.StatusCode)
			}
			if err.Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, err.Message)
			}
			if err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v", tc.retryable)
			}
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransport_Classification(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  ErrorCode
	}{
		{"canceled", fmt.Errorf("get: %w", context.Canceled), ErrCodeCanceled},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"net timeout", timeoutErr{}, ErrCodeTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}, ErrCodeConnectionFailed},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: stderrors.New("connection refused")}, ErrCodeConnectionFailed},
		{"other", stderrors.New("boom"), ErrCodeTransport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Transport(tc.cause)
			if err.Code != tc.want {
				t.Errorf("expected %s, got %s", tc.want, err.Code)
			}
			if err.StatusCode != 0 {
				t.Errorf("transport errors carry no status, got %d", err.StatusCode)
			}
			if !stderrors.Is(err, tc.cause) {
				t.Error("expected cause to be unwrappable")
			}
			if err.Message == "" {
				t.Error("expected non-empty message")
			}
		})
	}
}

func TestTransport_KeepsAppError(t *testing.T) {
	decodeErr := Decode(stderrors.New("unexpected EOF"))
	if got := Transport(fmt.Errorf("wrapped: %w", decodeErr)); got != decodeErr {
		t.Errorf("expected the same AppError, got %v", got)
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Decode(stderrors.New("invalid character 'x'"))
	if !strings.HasPrefix(err.Error(), "DECODE_FAILURE: ") {
		t.Errorf("unexpected error string %q", err.Error())
	}
	if !strings.Contains(err.Error(), "invalid character") {
		t.Errorf("expected cause text in %q", err.Error())
	}

	plain := ClientClosed()
	if plain.Error() != "CLIENT_CLOSED: client is closed" {
		t.Errorf("unexpected error string %q", plain.Error())
	}
}

func TestPredicates(t *testing.T) {
	protocol := fmt.Errorf("call: %w", Protocol(http.StatusNotFound, ""))
	if !IsProtocol(protocol) || IsTransport(protocol) {
		t.Error("protocol error misclassified")
	}

	decode := Decode(stderrors.New("bad"))
	if !IsDecode(decode) || !IsTransport(decode) {
		t.Error("decode error should count as transport failure")
	}

	timeout := Transport(context.DeadlineExceeded)
	if !IsTimeout(timeout) || !IsTransport(timeout) {
		t.Error("timeout misclassified")
	}

	if IsTransport(stderrors.New("plain")) {
		t.Error("plain errors are not transport failures")
	}
	if IsTransport(InvalidConfig("bad endpoint")) {
		t.Error("config errors are not transport failures")
	}
	if CodeOf(nil) != "" {
		t.Error("expected empty code for nil")
	}
}

func TestWithDetail(t *testing.T) {
	err := InvalidTarget("//evil.example.com/x", "authority not allowed").WithDetail("endpoint", "https://api.example.com")
	if err.Details["target"] != "//evil.example.com/x" {
		t.Errorf("expected target detail, got %v", err.Details["target"])
	}
	if err.Details["endpoint"] != "https://api.example.com" {
		t.Errorf("expected endpoint detail, got %v", err.Details["endpoint"])
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected false for plain error")
	}
	wrapped := fmt.Errorf("outer: %w", Encode(stderrors.New("unsupported type")))
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeEncode {
		t.Errorf("expected ENCODE_FAILURE, got %v", appErr)
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError=true")
	}
}
