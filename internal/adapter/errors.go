package adapter

import "errors"

var (
	// ErrUnreachable covers every transport failure: DNS, refused
	// connections, TLS errors and request timeouts.
	ErrUnreachable = errors.New("credential service unreachable")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrMalformedResponse is returned when a 2xx body cannot be decoded
	// into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidBaseURL is returned by SetBaseURL and the constructor for an
	// empty or unparsable API address.
	ErrInvalidBaseURL = errors.New("invalid api base url")
)
