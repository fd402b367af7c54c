// Package errors provides the error taxonomy used by the REST client.
// Every failure a client call can observe is represented as an *AppError
// carrying a machine-readable code, the HTTP status when one is known,
// and the underlying cause.
package errors
