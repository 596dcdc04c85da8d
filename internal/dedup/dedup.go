package dedup

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator suppresses repeat alerts using Redis
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(client *redis.Client, ttlMinutes int) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// ShouldAlert returns true if this identity hasn't been alerted within the
// TTL window. The claim is a single SETNX so concurrent consumers cannot
// both win.
func (d *Deduplicator) ShouldAlert(ctx context.Context, identity string) (bool, error) {
	claimed, err := d.client.SetNX(ctx, dedupKey(identity), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim dedup key: %w", err)
	}

	return claimed, nil
}

// Clear removes a dedup entry
func (d *Deduplicator) Clear(ctx context.Context, identity string) error {
	return d.client.Del(ctx, dedupKey(identity)).Err()
}

// dedupKey hashes the identity into a fixed-width key
func dedupKey(identity string) string {
	hash := sha256.Sum256([]byte(identity))
	return fmt.Sprintf("alert:dedup:%x", hash[:8])
}
