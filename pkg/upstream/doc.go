// Package upstream implements the HTTP client for the FAIRsharing API: user
// sign-in, record search, and paginated record listing.
//
// The upstream does not always use HTTP status codes for failures. An invalid
// or expired token is reported inside a 2xx response whose body carries the
// human-readable message "please login before continuing"; the client detects
// that signal and raises it as an UnauthorizedError, distinct from a non-2xx
// HTTPError and from a transport-level TransportError. The client itself
// never retries; recovery is the orchestrator's decision.
package upstream
