package httpclient

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kbukum/reststack/errors"
)

// Response is a fully read HTTP response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Reason is the reason phrase from the status line.
	Reason string
	// Header holds the response headers.
	Header http.Header
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns a protocol error carrying the reason phrase when the status is
// not 2xx, and nil otherwise.
func (r *Response) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return errors.Protocol(r.StatusCode, r.Reason)
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// ReasonPhrase extracts the reason phrase from a status line such as
// "404 Widget Not Found". It falls back to the standard text for the code.
func ReasonPhrase(status string, code int) string {
	reason := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}
