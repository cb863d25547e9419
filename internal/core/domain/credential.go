package domain

import "time"

// DefaultBaseURL is the backend queried when the credential file carries
// no base-URL override.
const DefaultBaseURL = "https://app.datadoghq.eu"

// Credential is a manually captured browser-session credential.
//
// It stands in for a formal API key: a session cookie plus CSRF token copied
// out of an authenticated web UI session. There is exactly one active
// credential per user profile. The value is immutable once loaded; the
// backend does not offer a refresh flow, so a rejected credential can only
// be replaced by re-capturing it.
type Credential struct {
	// SessionCookie is the opaque value of the web session cookie.
	SessionCookie string

	// CSRFToken is the opaque anti-CSRF header value paired with the cookie.
	CSRFToken string

	// BaseURL is the backend origin, e.g. "https://app.datadoghq.eu".
	BaseURL string

	// CapturedAt is when the credential was captured. Zero when the
	// credential file predates the timestamp field.
	CapturedAt time.Time
}

// IsComplete returns true if both secrets are present.
func (c *Credential) IsComplete() bool {
	return c != nil && c.SessionCookie != "" && c.CSRFToken != ""
}

// LikelyExpired is a best-effort age heuristic. Session cookies are
// invalidated server-side on an unknown schedule; the only authoritative
// signal is a real call failing with ErrAuthExpired, so false here proves
// nothing.
func (c *Credential) LikelyExpired(maxAge time.Duration) bool {
	if c == nil || c.CapturedAt.IsZero() {
		return false
	}
	return time.Since(c.CapturedAt) > maxAge
}

// Age returns the time elapsed since capture, or zero if unknown.
func (c *Credential) Age() time.Duration {
	if c == nil || c.CapturedAt.IsZero() {
		return 0
	}
	return time.Since(c.CapturedAt)
}
