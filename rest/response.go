package rest

import (
	"fmt"
	"net/http"

	"github.com/kbukum/reststack/errors"
)

// StatusInternalError is the status reported when a call fails before a
// usable response exists: transport failures, encode and decode failures,
// invalid targets and calls on a closed client. The error's code keeps the
// finer cause.
const StatusInternalError = http.StatusInternalServerError

// Result is the outcome of a call that carries no payload.
//
// Success implies Err == nil. !Success implies Err != nil.
type Result struct {
	Success    bool
	StatusCode int
	Err        error
}

// Response is the outcome of a call that decodes a payload of type T.
//
// On success Data holds the decoded body. On failure Data is the zero value.
type Response[T any] struct {
	Result
	Data T
}

// Succeeded returns a successful Result with the server's status.
func Succeeded(status int) Result {
	return Result{Success: true, StatusCode: status}
}

// Failed returns a failed Result. A nil err is replaced with a generic
// transport failure so a failed Result always explains itself.
func Failed(status int, err error) Result {
	if err == nil {
		err = errors.New(errors.ErrCodeTransport, "request failed")
	}
	return Result{StatusCode: status, Err: err}
}

// SucceededWith returns a successful Response carrying data.
func SucceededWith[T any](data T, status int) Response[T] {
	return Response[T]{Result: Succeeded(status), Data: data}
}

// FailedWith returns a failed Response with a zero Data.
func FailedWith[T any](status int, err error) Response[T] {
	return Response[T]{Result: Failed(status, err)}
}

// ErrorMessage returns the failure text, or "" on success.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// String renders the outcome, e.g. "200 success" or "404 failed: ...".
func (r Result) String() string {
	if r.Success {
		return fmt.Sprintf("%d success", r.StatusCode)
	}
	return fmt.Sprintf("%d failed: %s", r.StatusCode, r.ErrorMessage())
}

// UnwrapOrDefault returns Data, which is the zero value when the call failed.
// Callers that need to tell a zero payload from a failure check Success or
// use Unwrap.
func (r Response[T]) UnwrapOrDefault() T {
	return r.Data
}

// Unwrap returns Data on success and the zero value plus Err otherwise.
func (r Response[T]) Unwrap() (T, error) {
	if !r.Success {
		var zero T
		return zero, r.Err
	}
	return r.Data, nil
}
