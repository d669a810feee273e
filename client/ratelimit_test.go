package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0))
	assert.Nil(t, NewRateLimiter(-1))
}

func TestRateLimiterPacesRequests(t *testing.T) {
	rl := NewRateLimiter(10) // 10 req/s, bucket starts full
	require.NotNil(t, rl)

	ctx := context.Background()
	start := time.Now()
	// The first 10 drain the bucket; the next few must wait for refills.
	for i := 0; i < 13; i++ {
		require.NoError(t, rl.Wait(ctx))
	}
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond, "waits past the bucket size should be paced")
}

func TestRateLimiterFractionalRateAdmitsNextRequest(t *testing.T) {
	rl := NewRateLimiter(0.5) // one request every two seconds
	require.NotNil(t, rl)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, rl.Wait(ctx)) // drains the bucket
	start := time.Now()
	require.NoError(t, rl.Wait(ctx), "a fractional rate must refill up to a full token")
	assert.GreaterOrEqual(t, time.Since(start), 1900*time.Millisecond)
}

func TestRateLimiterHonorsCancellation(t *testing.T) {
	rl := NewRateLimiter(0.5) // one request every two seconds
	require.NotNil(t, rl)

	ctx := context.Background()
	require.NoError(t, rl.Wait(ctx)) // drains the bucket

	cancelled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := rl.Wait(cancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
