package proxy

import (
	"fmt"
)

// MalformedCredentialsError reports an auth header that could not be decoded
// into a username and password.
type MalformedCredentialsError struct{}

// Error implements the error interface.
func (e *MalformedCredentialsError) Error() string {
	return "invalid authorization provided"
}

// AuthenticationError reports that the upstream refused to issue a token for
// the supplied credentials. Message carries the upstream's own explanation.
type AuthenticationError struct {
	// Message is the sign-in message reported by the upstream.
	Message string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("could not authenticate via remote API: %s", e.Message)
}

// LoginError reports that the sign-in exchange itself failed, so the
// credentials were never judged.
type LoginError struct {
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *LoginError) Error() string {
	return fmt.Sprintf("failed to login via remote API: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *LoginError) Unwrap() error {
	return e.Cause
}
