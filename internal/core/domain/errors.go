package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotAuthenticated indicates no bearer token is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrOpaqueToken indicates the bearer token carries no readable claims.
	ErrOpaqueToken = errors.New("token is opaque")

	// ErrTransport indicates the backend could not be reached at all.
	// No response was received, so there is no status to report.
	ErrTransport = errors.New("transport failure")

	// ErrBusy indicates a chat submission is already in flight.
	ErrBusy = errors.New("a request is already in flight")
)
