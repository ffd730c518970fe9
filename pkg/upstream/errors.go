package upstream

import (
	"fmt"
)

// NeedLoginMessage is the literal body message the upstream uses to signal
// a rejected token inside a 2xx response.
const NeedLoginMessage = "please login before continuing"

// UnauthorizedError reports the upstream's unauthorized-via-200 signal: the
// HTTP exchange succeeded but the body says the token is not accepted.
type UnauthorizedError struct{}

// Error implements the error interface.
func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("upstream rejected token: %s", NeedLoginMessage)
}

// HTTPError reports a non-2xx upstream response. Status code and body are
// carried unchanged so callers can pass them through verbatim.
type HTTPError struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Body is the raw upstream response body.
	Body []byte

	// ContentType is the upstream Content-Type header, if any.
	ContentType string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// TransportError reports a connection, timeout, or decoding failure: the
// request never produced a usable upstream response.
type TransportError struct {
	// Op names the operation that failed (login, search, list).
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
