package datadog

import "time"

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the base delay between retries. Backoff is linear:
	// attempt N waits N * RetryDelay.
	RetryDelay = 500 * time.Millisecond

	// DefaultUserAgent identifies the client to the backend.
	DefaultUserAgent = "ddwatch/0.2"

	// DefaultHydrateConcurrency bounds parallel fetch-one calls during a
	// deep fetch.
	DefaultHydrateConcurrency = 4
)

// Config tunes the client. The zero value is usable; unset fields fall
// back to the package defaults.
type Config struct {
	// UserAgent overrides the User-Agent header.
	UserAgent string

	// Timeout bounds every HTTP request. Timeouts surface as
	// domain.ErrUnreachable.
	Timeout time.Duration

	// MaxRetries bounds retries for transient failures. Auth failures are
	// never retried regardless of this value.
	MaxRetries int

	// RetryDelay is the linear backoff base between retries.
	RetryDelay time.Duration

	// HydrateConcurrency bounds parallel single-record fetches in
	// DeepFetch. Pagination itself is never parallelised.
	HydrateConcurrency int
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = MaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = RetryDelay
	}
	if c.HydrateConcurrency <= 0 {
		c.HydrateConcurrency = DefaultHydrateConcurrency
	}
	return c
}
