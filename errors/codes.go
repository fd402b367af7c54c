package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Transport errors: the call failed before a status was obtained.
const (
	// ErrCodeTransport indicates an unclassified failure while performing the call.
	ErrCodeTransport ErrorCode = "TRANSPORT_FAILURE"
	// ErrCodeConnectionFailed indicates DNS, dial or TLS failures.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request or its context deadline timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the caller canceled the request context.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeClientClosed indicates the client was used after Close.
	ErrCodeClientClosed ErrorCode = "CLIENT_CLOSED"
)

// Payload errors: the serializer rejected a body.
const (
	// ErrCodeEncode indicates the request payload could not be serialized.
	ErrCodeEncode ErrorCode = "ENCODE_FAILURE"
	// ErrCodeDecode indicates the response body could not be deserialized.
	ErrCodeDecode ErrorCode = "DECODE_FAILURE"
)

// Request errors.
const (
	// ErrCodeInvalidTarget indicates the request URI could not be resolved.
	ErrCodeInvalidTarget ErrorCode = "INVALID_TARGET"
	// ErrCodeInvalidConfig indicates a client configuration error.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// ErrCodeProtocol indicates the server answered with a non-success status.
const ErrCodeProtocol ErrorCode = "PROTOCOL_FAILURE"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeTransport:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// The client never retries; the hint is for callers that wrap it.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
