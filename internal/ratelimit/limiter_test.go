package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(5, 15*time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 4-i, d.Remaining)
	}

	// The sixth request inside the window is denied and consumes nothing.
	d, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 14*time.Minute, d.RetryAfter(now.Add(time.Minute)))

	// Still denied right before expiry.
	now = now.Add(15*time.Minute - time.Second)
	d, _ = limiter.Allow(ctx, "user-1")
	assert.False(t, d.Allowed)

	// The window expires and the counter resets.
	now = now.Add(2 * time.Second)
	d, err = limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestMemoryLimiterIsolatesKeys(t *testing.T) {
	limiter := NewMemoryLimiter(1, 15*time.Minute)
	ctx := context.Background()

	d, _ := limiter.Allow(ctx, "user-1")
	assert.True(t, d.Allowed)
	d, _ = limiter.Allow(ctx, "user-1")
	assert.False(t, d.Allowed)

	d, _ = limiter.Allow(ctx, "user-2")
	assert.True(t, d.Allowed, "another user keeps a fresh quota")
}

func TestDecisionRetryAfterNeverNegative(t *testing.T) {
	d := Decision{Allowed: false, ResetAt: time.Now().Add(-time.Minute)}
	assert.Equal(t, time.Duration(0), d.RetryAfter(time.Now()))
}
