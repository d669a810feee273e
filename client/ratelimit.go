package client

import (
	"context"
	"sync"
	"time"
)

// RateLimiter paces outbound requests with a token bucket. A zero or negative
// rate disables pacing entirely.
type RateLimiter struct {
	mu     sync.Mutex
	rate   float64 // requests per second
	tokens float64 // current available tokens
	last   time.Time
}

// NewRateLimiter creates a limiter, or nil when pacing is disabled.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	tokens := requestsPerSecond
	if tokens < 1 {
		// A fresh limiter always admits the first request.
		tokens = 1
	}
	return &RateLimiter{
		rate:   requestsPerSecond,
		tokens: tokens,
		last:   time.Now(),
	}
}

// Wait blocks until a request may be sent or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		// Refill tokens
		now := time.Now()
		elapsed := now.Sub(rl.last).Seconds()
		if elapsed > 0 {
			rl.tokens += elapsed * rl.rate
			// The bucket holds at least one token's worth so fractional
			// rates can still admit requests.
			limit := rl.rate
			if limit < 1 {
				limit = 1
			}
			if rl.tokens > limit {
				rl.tokens = limit
			}
			rl.last = now
		}
		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		// Wait for the next refill cycle
		sleepDur := time.Duration(float64(time.Second) / rl.rate)
		rl.mu.Unlock()

		select {
		case <-time.After(sleepDur):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
