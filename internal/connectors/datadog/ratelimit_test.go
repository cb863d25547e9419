package datadog

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rateResponse(headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{Header: h}
}

func TestRateLimiterUpdateFromResponse(t *testing.T) {
	t.Run("parses rate headers", func(t *testing.T) {
		r := NewRateLimiter()
		r.UpdateFromResponse(rateResponse(map[string]string{
			HeaderRateLimit:     "100",
			HeaderRateRemaining: "42",
			HeaderRateReset:     "30",
		}))

		assert.Equal(t, 42, r.Remaining())
		assert.Equal(t, 100, r.Limit())
	})

	t.Run("ignores garbage headers", func(t *testing.T) {
		r := NewRateLimiter()
		r.UpdateFromResponse(rateResponse(map[string]string{
			HeaderRateRemaining: "not-a-number",
		}))

		assert.Equal(t, -1, r.Remaining())
	})

	t.Run("nil response is a no-op", func(t *testing.T) {
		r := NewRateLimiter()
		r.UpdateFromResponse(nil)
		assert.Equal(t, -1, r.Remaining())
	})
}

func TestRetryAfterHint(t *testing.T) {
	assert.Equal(t, 7*time.Second, RetryAfterHint(rateResponse(map[string]string{HeaderRetryAfter: "7"})))
	assert.Equal(t, time.Duration(0), RetryAfterHint(rateResponse(nil)))
	assert.Equal(t, time.Duration(0), RetryAfterHint(rateResponse(map[string]string{HeaderRetryAfter: "soon"})))
	assert.Equal(t, time.Duration(0), RetryAfterHint(nil))
}
