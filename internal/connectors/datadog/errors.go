package datadog

import (
	"errors"
	"fmt"
	"time"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// bodyPrefixLen bounds how much of a raw response body is carried inside
// diagnostic errors.
const bodyPrefixLen = 256

// AuthError indicates the backend rejected the session credential.
// It unwraps to domain.ErrAuthExpired. There is no refresh flow; the only
// remedy is re-capturing the credential.
type AuthError struct {
	StatusCode int
	Detail     string
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("datadog: auth rejected (HTTP %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("datadog: auth rejected (HTTP %d)", e.StatusCode)
}

func (e *AuthError) Unwrap() error { return domain.ErrAuthExpired }

// RateLimitError indicates the rate limit persisted past the bounded retry
// budget. It unwraps to domain.ErrRateLimited.
type RateLimitError struct {
	// RetryAfter is the backend-provided hint, zero when absent.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("datadog: rate limited, retry after %s", e.RetryAfter)
	}
	return "datadog: rate limited"
}

func (e *RateLimitError) Unwrap() error { return domain.ErrRateLimited }

// TransportError indicates a network failure, timeout, or persistent 5xx.
// It unwraps to domain.ErrUnreachable.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("datadog: backend unreachable after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return domain.ErrUnreachable }

// DecodeError indicates a response that could not be decoded into the
// expected shape, or a request the backend refused as malformed. It carries
// a bounded prefix of the raw body for diagnostics and unwraps to
// domain.ErrMalformedResponse.
type DecodeError struct {
	StatusCode int
	BodyPrefix string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("datadog: malformed response (HTTP %d): %v; body: %q", e.StatusCode, e.Err, e.BodyPrefix)
}

func (e *DecodeError) Unwrap() error { return domain.ErrMalformedResponse }

// newDecodeError builds a DecodeError with the body prefix bounded.
func newDecodeError(statusCode int, body []byte, err error) *DecodeError {
	prefix := body
	if len(prefix) > bodyPrefixLen {
		prefix = prefix[:bodyPrefixLen]
	}
	return &DecodeError{StatusCode: statusCode, BodyPrefix: string(prefix), Err: err}
}

// IsAuthExpired returns true if the error indicates a rejected credential.
func IsAuthExpired(err error) bool {
	return errors.Is(err, domain.ErrAuthExpired)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

// IsUnreachable returns true if the error indicates a network-level failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, domain.ErrUnreachable)
}

// IsMalformed returns true if the error indicates an undecodable response.
func IsMalformed(err error) bool {
	return errors.Is(err, domain.ErrMalformedResponse)
}
