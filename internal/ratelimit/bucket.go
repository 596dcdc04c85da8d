package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TokenBucket implements a token bucket rate limiter backed by Redis so
// the cap holds across consumer restarts
type TokenBucket struct {
	client       *redis.Client
	key          string
	maxTokens    int
	refillPeriod time.Duration
	clock        clockwork.Clock
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(client *redis.Client, maxTokens int, clock clockwork.Clock) *TokenBucket {
	return &TokenBucket{
		client:       client,
		key:          "alert:ratelimit:tokens",
		maxTokens:    maxTokens,
		refillPeriod: 1 * time.Minute,
		clock:        clock,
	}
}

// Start runs the refill loop until the context is cancelled
func (tb *TokenBucket) Start(ctx context.Context) {
	ticker := tb.clock.NewTicker(tb.refillPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if err := tb.client.Set(ctx, tb.key, tb.maxTokens, 0).Err(); err != nil {
				log.Warn().Err(err).Msg("token bucket refill failed")
			}
		}
	}
}

// AllowAlert consumes a token, false when the bucket is empty
func (tb *TokenBucket) AllowAlert(ctx context.Context) (bool, error) {
	// Seed the bucket on first use
	if err := tb.client.SetNX(ctx, tb.key, tb.maxTokens, 0).Err(); err != nil {
		return false, fmt.Errorf("failed to seed bucket: %w", err)
	}

	tokens, err := tb.client.Decr(ctx, tb.key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to decrement tokens: %w", err)
	}

	if tokens < 0 {
		// Give the token back so the floor stays near zero
		tb.client.Incr(ctx, tb.key)
		return false, nil
	}

	return true, nil
}

// GetTokens returns the current token count
func (tb *TokenBucket) GetTokens(ctx context.Context) (int, error) {
	tokens, err := tb.client.Get(ctx, tb.key).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get tokens: %w", err)
	}

	return tokens, nil
}

// Reset refills the bucket to max tokens
func (tb *TokenBucket) Reset(ctx context.Context) error {
	return tb.client.Set(ctx, tb.key, tb.maxTokens, 0).Err()
}
