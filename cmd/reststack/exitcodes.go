package main

import "strconv"

// Exit codes for the reststack CLI.
const (
	// exitSuccess indicates a 2xx response.
	exitSuccess = 0

	// exitProtocolFailure indicates the server answered with a non-2xx status.
	exitProtocolFailure = 1

	// exitUsageError indicates invalid flags, arguments or request data.
	exitUsageError = 2

	// exitConfigError indicates an invalid or unreadable configuration.
	exitConfigError = 3

	// exitTransportFailure indicates no usable response was obtained.
	exitTransportFailure = 4
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }
