package datadog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kestrel-labs/ddwatch/internal/logger"
)

const (
	// sessionCookieName is the web session cookie the backend authenticates.
	sessionCookieName = "dogweb"

	// csrfHeaderName carries the anti-CSRF token paired with the cookie.
	csrfHeaderName = "x-csrf-token"
)

// authFailureMarkers are substrings that mark an auth failure delivered in
// a nominally successful response body. The backend has no structured
// auth-failure signal on these side channels, so this is an explicit,
// best-effort heuristic: a backend wording change can produce false
// negatives, which then surface as decode errors instead.
var authFailureMarkers = []string{
	"not authorized",
	"authentication required",
	"invalid csrf",
}

// markerScanLimit bounds how much of a response body the auth-marker scan
// inspects. Real auth-failure bodies are tiny; large bodies are results.
const markerScanLimit = 2048

// hasAuthFailureMarker reports whether the body looks like an in-band auth
// failure.
func hasAuthFailureMarker(body []byte) bool {
	scan := body
	if len(scan) > markerScanLimit {
		scan = scan[:markerScanLimit]
	}
	lower := strings.ToLower(string(scan))
	for _, marker := range authFailureMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// postJSON issues an authenticated POST and returns the raw body.
func (c *Client) postJSON(ctx context.Context, path string, body any) ([]byte, http.Header, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload)
}

// getJSON issues an authenticated GET and returns the raw body.
func (c *Client) getJSON(ctx context.Context, path string) ([]byte, http.Header, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// do sends one authenticated request with the bounded retry policy:
//
//   - auth failures surface immediately, never retried (the credential
//     will not become valid by itself)
//   - 429 waits for the backend's Retry-After hint (or the linear backoff,
//     whichever is longer) within the retry budget, then surfaces
//   - network errors and 5xx retry with linear backoff, then surface as
//     unreachable
//
// Concurrency-safe; do holds no client state beyond the rate limiter.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, http.Header, error) {
	attempts := c.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}

		body, header, retryable, err := c.send(ctx, method, path, payload)
		if err == nil {
			return body, header, nil
		}
		if !retryable {
			return nil, nil, err
		}
		lastErr = err

		if attempt < attempts {
			delay := time.Duration(attempt) * c.cfg.RetryDelay
			if rl, ok := err.(*RateLimitError); ok && rl.RetryAfter > delay {
				delay = rl.RetryAfter
			}
			logger.Debug("retrying %s %s in %s (attempt %d/%d): %v", method, path, delay, attempt, attempts, err)
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if rl, ok := lastErr.(*RateLimitError); ok {
		return nil, nil, rl
	}
	return nil, nil, &TransportError{Attempts: attempts, Err: lastErr}
}

// send performs a single HTTP exchange and classifies the outcome.
// The second return reports whether the failure is retryable.
func (c *Client) send(ctx context.Context, method, path string, payload []byte) ([]byte, http.Header, bool, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cred.BaseURL+path, reqBody)
	if err != nil {
		return nil, nil, false, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set(csrfHeaderName, c.cred.CSRFToken)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.cred.SessionCookie})
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Caller cancellation is not a transport failure.
		if ctx.Err() != nil {
			return nil, nil, false, ctx.Err()
		}
		return nil, nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, false, ctx.Err()
		}
		return nil, nil, true, fmt.Errorf("reading response body: %w", err)
	}

	c.limiter.UpdateFromResponse(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, nil, false, &AuthError{StatusCode: resp.StatusCode, Detail: bodyPrefix(body)}

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, nil, true, &RateLimitError{RetryAfter: RetryAfterHint(resp)}

	case resp.StatusCode >= 500:
		return nil, nil, true, fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyPrefix(body))

	case resp.StatusCode >= 400:
		// The builder validated the query, so a residual 4xx means the
		// wire contract drifted from what this client was built against.
		return nil, nil, false, newDecodeError(resp.StatusCode, body, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// The backend sometimes reports auth failures inside a 200 body
	// instead of the status code.
	if hasAuthFailureMarker(body) {
		return nil, nil, false, &AuthError{StatusCode: resp.StatusCode, Detail: "auth failure marker in response body"}
	}

	return body, resp.Header, false, nil
}

// bodyPrefix bounds a raw body for inclusion in error detail.
func bodyPrefix(body []byte) string {
	if len(body) > bodyPrefixLen {
		body = body[:bodyPrefixLen]
	}
	return string(body)
}

// decode unmarshals a successful response body, converting failures into
// the malformed-response taxonomy with diagnostics attached.
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return newDecodeError(http.StatusOK, body, err)
	}
	return nil
}
