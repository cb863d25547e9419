package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredentialIsComplete(t *testing.T) {
	t.Run("complete with both secrets", func(t *testing.T) {
		c := &Credential{SessionCookie: "cookie", CSRFToken: "token"}
		assert.True(t, c.IsComplete())
	})

	t.Run("incomplete without cookie", func(t *testing.T) {
		c := &Credential{CSRFToken: "token"}
		assert.False(t, c.IsComplete())
	})

	t.Run("incomplete without csrf token", func(t *testing.T) {
		c := &Credential{SessionCookie: "cookie"}
		assert.False(t, c.IsComplete())
	})

	t.Run("nil credential is incomplete", func(t *testing.T) {
		var c *Credential
		assert.False(t, c.IsComplete())
	})
}

func TestCredentialLikelyExpired(t *testing.T) {
	t.Run("fresh credential is not likely expired", func(t *testing.T) {
		c := &Credential{CapturedAt: time.Now().Add(-time.Hour)}
		assert.False(t, c.LikelyExpired(24*time.Hour))
	})

	t.Run("old credential is likely expired", func(t *testing.T) {
		c := &Credential{CapturedAt: time.Now().Add(-48 * time.Hour)}
		assert.True(t, c.LikelyExpired(24*time.Hour))
	})

	t.Run("unknown capture time is never flagged", func(t *testing.T) {
		c := &Credential{}
		assert.False(t, c.LikelyExpired(time.Nanosecond))
	})
}
