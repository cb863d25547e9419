package domain

import "errors"

// Domain errors represent the failure taxonomy exposed to callers.
// Every failure surfaced by the core maps onto exactly one of these,
// usually wrapped with operation context via fmt.Errorf("...: %w", ...).
var (
	// ErrNotConfigured indicates no credential is present on disk.
	// The remedy is external: re-run the interactive capture.
	ErrNotConfigured = errors.New("credentials not configured")

	// ErrAuthExpired indicates the backend rejected the session credential.
	// Never retried with the same credential; re-capture is a human step.
	ErrAuthExpired = errors.New("session credentials expired or rejected")

	// ErrRateLimited indicates the backend rate limit was exceeded and the
	// bounded retry budget did not clear it.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnreachable indicates a network failure or timeout that persisted
	// through the bounded retry budget.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrMalformedResponse indicates the backend returned a body that could
	// not be decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrInvalidQuery indicates a builder-level contract violation,
	// raised before any network call.
	ErrInvalidQuery = errors.New("invalid query")
)
