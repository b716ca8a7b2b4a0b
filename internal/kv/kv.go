// Package kv holds short-lived flags in Redis, such as revoked session ids.
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when no Redis client was configured.
var ErrUnavailable = errors.New("redis not configured")

// Client stores expiring flags. A nil *Client has no flags set and refuses writes.
type Client struct {
	rdb *redis.Client
}

// New connects lazily to Redis at addr.
func New(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Flag sets key until ttl elapses.
func (c *Client) Flag(ctx context.Context, key string, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return ErrUnavailable
	}
	return c.rdb.Set(ctx, key, 1, ttl).Err()
}

// IsFlagged reports whether key is set.
func (c *Client) IsFlagged(ctx context.Context, key string) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping reports whether redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return ErrUnavailable
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
