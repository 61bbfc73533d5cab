package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// seenTTL keeps cached keys around long enough to cover the window in which
// the same listing realistically reappears in search results.
const seenTTL = 30 * 24 * time.Hour

// SeenCache is a best-effort Redis fast path in front of the authoritative
// dedup query. A cache miss or a Redis outage just means an extra Postgres
// round-trip; correctness never depends on it.
type SeenCache struct {
	rdb *redis.Client
}

// NewSeenCache parses redisURL and verifies connectivity.
func NewSeenCache(ctx context.Context, redisURL string) (*SeenCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &SeenCache{rdb: client}, nil
}

func (c *SeenCache) key(userID, source, dedupKey string) string {
	return fmt.Sprintf("zephyr:seen:%s:%s:%s", userID, source, dedupKey)
}

// IsSeen reports whether the dedup key was recently cached. Errors degrade
// to "not seen" so the authoritative store check still runs.
func (c *SeenCache) IsSeen(ctx context.Context, userID, source, dedupKey string) bool {
	n, err := c.rdb.Exists(ctx, c.key(userID, source, dedupKey)).Result()
	if err != nil {
		log.Printf("⚠️ Seen-cache lookup failed: %v", err)
		return false
	}
	return n > 0
}

// MarkSeen records a dedup key after the store confirmed it exists.
func (c *SeenCache) MarkSeen(ctx context.Context, userID, source, dedupKey string) {
	if err := c.rdb.Set(ctx, c.key(userID, source, dedupKey), 1, seenTTL).Err(); err != nil {
		log.Printf("⚠️ Seen-cache write failed: %v", err)
	}
}

func (c *SeenCache) Close() error {
	return c.rdb.Close()
}
