// Package redis backs the session cache with Redis. The users table remains
// the source of truth for sessions; this cache only short-circuits token
// resolution, so a flushed or unreachable Redis degrades to store lookups.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix          = "session:"
	defaultDialTimeout = 5 * time.Second
)

// Config captures the settings for the Redis-backed session cache.
type Config struct {
	Addr string
	DB   int
	// DialTimeout bounds the startup connectivity check. Defaults to 5s.
	DialTimeout time.Duration
}

// SessionCache maps session tokens to user ids with a TTL.
// Key format: session:<token>
type SessionCache struct {
	client *redis.Client
}

// Connect dials Redis, verifies connectivity with a ping, and returns the
// session cache over that connection.
func Connect(ctx context.Context, cfg Config) (*SessionCache, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &SessionCache{client: client}, nil
}

func (c *SessionCache) Put(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(token), strconv.FormatInt(userID, 10), ttl).Err()
}

func (c *SessionCache) Get(ctx context.Context, token string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("session cache get: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("session cache parse: %w", err)
	}
	return userID, true, nil
}

func (c *SessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.key(token)).Err()
}

// Ping verifies the connection, for readiness probes.
func (c *SessionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection.
func (c *SessionCache) Close() error {
	return c.client.Close()
}

func (c *SessionCache) key(token string) string {
	return keyPrefix + token
}
