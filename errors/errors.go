package errors

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
)

// AppError is the unified client error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// StatusCode is the HTTP status the server returned, 0 when no status was obtained.
	StatusCode int `json:"status_code,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// Protocol creates an error for a non-success status. The message is the
// server's reason phrase.
func Protocol(statusCode int, reason string) *AppError {
	if reason == "" {
		reason = http.StatusText(statusCode)
	}
	if reason == "" {
		reason = fmt.Sprintf("HTTP %d", statusCode)
	}
	return &AppError{
		Code:       ErrCodeProtocol,
		Message:    reason,
		StatusCode: statusCode,
		Retryable:  statusCode == http.StatusTooManyRequests || statusCode >= 500,
	}
}

// Transport classifies a failure that happened while performing the call.
// An *AppError cause is returned unchanged.
func Transport(cause error) *AppError {
	var appErr *AppError
	if stderrors.As(cause, &appErr) {
		return appErr
	}

	code := ErrCodeTransport
	var netErr net.Error
	var dnsErr *net.DNSError
	var opErr *net.OpError
	var tlsErr *tls.CertificateVerificationError
	switch {
	case stderrors.Is(cause, context.Canceled):
		code = ErrCodeCanceled
	case stderrors.Is(cause, context.DeadlineExceeded):
		code = ErrCodeTimeout
	case stderrors.As(cause, &netErr) && netErr.Timeout():
		code = ErrCodeTimeout
	case stderrors.As(cause, &dnsErr), stderrors.As(cause, &opErr), stderrors.As(cause, &tlsErr):
		code = ErrCodeConnectionFailed
	}
	return &AppError{
		Code:      code,
		Message:   cause.Error(),
		Retryable: IsRetryableCode(code),
		Cause:     cause,
	}
}

// Encode creates an error for a request payload the serializer rejected.
func Encode(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeEncode,
		Message: fmt.Sprintf("serialize request: %v", cause),
		Cause:   cause,
	}
}

// Decode creates an error for a response body the serializer rejected.
func Decode(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeDecode,
		Message: fmt.Sprintf("deserialize response: %v", cause),
		Cause:   cause,
	}
}

// InvalidTarget creates an error for a request URI that cannot be resolved
// against the client endpoint.
func InvalidTarget(target, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTarget,
		Message: fmt.Sprintf("invalid request target %q: %s", target, reason),
		Details: map[string]any{"target": target},
	}
}

// ClientClosed creates an error for calls issued after the client was closed.
func ClientClosed() *AppError {
	return &AppError{
		Code:    ErrCodeClientClosed,
		Message: "client is closed",
	}
}

// InvalidConfig creates an error for invalid client configuration.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: message,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of an AppError, or "" for any other error.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsProtocol reports whether the server rejected the request with a non-success status.
func IsProtocol(err error) bool {
	return CodeOf(err) == ErrCodeProtocol
}

// IsDecode reports whether the response body could not be deserialized.
func IsDecode(err error) bool {
	return CodeOf(err) == ErrCodeDecode
}

// IsTimeout reports whether the call timed out.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrCodeTimeout
}

// IsTransport reports whether the call failed locally, before or instead of
// obtaining a usable response. Encode and decode failures count as transport
// failures.
func IsTransport(err error) bool {
	switch CodeOf(err) {
	case "", ErrCodeProtocol, ErrCodeInvalidConfig:
		return false
	default:
		return true
	}
}
