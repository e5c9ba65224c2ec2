package redis

import (
	"context"
	"fmt"

	"Aria_AI/internal/config"

	"github.com/go-redis/redis/v8"
)

// NewClient creates a Redis client and verifies the connection with a
// ping.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// HealthCheck pings the server.
func HealthCheck(ctx context.Context, c *redis.Client) error {
	if c == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return c.Ping(ctx).Err()
}
