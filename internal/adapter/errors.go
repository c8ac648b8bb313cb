package adapter

import "errors"

// Sentinels for HTTP failures. They always travel together with the sync
// outcome they map to.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrThrottled           = errors.New("throttled by server")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
	// ErrUnreachable is returned when no HTTP response was received.
	ErrUnreachable = errors.New("server unreachable")
	// ErrInvalidResponse is returned when a 2xx body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid server response")
)
