package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MARUGO-s/app-sub001/internal/testhelpers"
)

func TestRateLimiterIsAllowed(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	ctx := context.Background()

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 2, KeyPrefix: "test"})
	fixed := time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	allowed, remaining, reset, err := rl.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 31, 0, 0, time.UTC), reset)

	allowed, remaining, _, err = rl.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, err = rl.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Owners are counted separately.
	allowed, _, _, err = rl.IsAllowed(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, allowed)
}
