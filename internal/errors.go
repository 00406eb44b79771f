package internal

import "fmt"

// ErrorKind classifies API failures at the request-executor boundary so
// callers never inspect raw HTTP status codes.
type ErrorKind string

const (
	// ErrRateLimited is a 429; the executor retries these with backoff
	// before surfacing the error.
	ErrRateLimited ErrorKind = "rate_limited"
	// ErrUnauthorized is a 401: invalid or unauthorized API key.
	ErrUnauthorized ErrorKind = "unauthorized"
	// ErrNotFound is a 404: resource not found or access denied.
	ErrNotFound ErrorKind = "not_found"
	// ErrInvalidResponse is a 2xx whose body is not parseable JSON.
	ErrInvalidResponse ErrorKind = "invalid_response"
	// ErrTransport is a network-level failure before any status arrived.
	ErrTransport ErrorKind = "transport"
	// ErrHTTP is any other non-2xx status.
	ErrHTTP ErrorKind = "http"
)

// APIError represents a failed request to the Limitless API
type APIError struct {
	Kind   ErrorKind
	Status int // 0 when no HTTP status was received
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case ErrUnauthorized:
		return "api error: invalid or unauthorized API key"
	case ErrNotFound:
		return "api error: resource not found or access denied"
	case ErrRateLimited:
		return "api error: rate limited"
	case ErrInvalidResponse:
		return fmt.Sprintf("api error: invalid response format: %v", e.Err)
	case ErrTransport:
		return fmt.Sprintf("api error: request failed: %v", e.Err)
	default:
		return fmt.Sprintf("api error: unexpected status %d", e.Status)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the executor may retry the request.
// Only rate-limit responses are retried; everything else is fatal
// for the call that produced it.
func (e *APIError) IsRetryable() bool {
	return e.Kind == ErrRateLimited
}

// VaultError represents errors accessing the local vault
type VaultError struct {
	Path string
	Op   string // "read", "write", "list", "mkdir"
	Err  error
}

func (e *VaultError) Error() string {
	return fmt.Sprintf("vault error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *VaultError) Unwrap() error {
	return e.Err
}

// ProcessError represents a render or write failure for a single chat.
// These are logged and skipped without aborting the surrounding sync.
type ProcessError struct {
	ChatID string
	Err    error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process error [%s]: %v", e.ChatID, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
