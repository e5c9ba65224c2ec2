package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// Cache keeps recently used conversations in Redis so chat turns do
// not reload the full history from MongoDB every time. All failures
// degrade to a cache miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewCache creates a Cache. A nil client disables caching.
func NewCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(conversationID string) string {
	return fmt.Sprintf("conv:%s:context", conversationID)
}

// Get returns the cached conversation, or nil on a miss.
func (c *Cache) Get(ctx context.Context, conversationID string) *models.Conversation {
	if c.rdb == nil {
		return nil
	}
	raw, err := c.rdb.Get(ctx, cacheKey(conversationID)).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.log.Warn(fmt.Sprintf("conversation cache read failed: %v", err))
		return nil
	}
	var conv models.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		c.log.Warn(fmt.Sprintf("conversation cache entry corrupt: %v", err))
		c.Invalidate(ctx, conversationID)
		return nil
	}
	return &conv
}

// Set stores the conversation with the configured TTL.
func (c *Cache) Set(ctx context.Context, conv *models.Conversation) {
	if c.rdb == nil || conv == nil {
		return
	}
	raw, err := json.Marshal(conv)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(conv.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn(fmt.Sprintf("conversation cache write failed: %v", err))
	}
}

// Invalidate drops the cached entry.
func (c *Cache) Invalidate(ctx context.Context, conversationID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKey(conversationID)).Err(); err != nil {
		c.log.Warn(fmt.Sprintf("conversation cache invalidation failed: %v", err))
	}
}
