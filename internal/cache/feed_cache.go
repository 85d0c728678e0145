// Package cache provides the Redis-backed feed cache. Only the discovery
// (cold start) page of the global feed is cached; filtered feeds are personal
// and not worth the invalidation traffic.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/waveriff/waveriff/internal/models"
)

const feedTTL = 5 * time.Minute

// FeedCache caches pages of the global latest feed.
type FeedCache interface {
	GetGlobalLatest(ctx context.Context, page, limit int) ([]models.Post, int64, bool)
	SetGlobalLatest(ctx context.Context, page, limit int, posts []models.Post, total int64)
	InvalidateGlobal(ctx context.Context)
}

type cachedFeedPage struct {
	Posts []models.Post `json:"posts"`
	Total int64         `json:"total"`
}

// RedisFeedCache implements FeedCache on Redis.
type RedisFeedCache struct {
	client *redis.Client
}

// NewRedisFeedCache creates a new RedisFeedCache
func NewRedisFeedCache(client *redis.Client) *RedisFeedCache {
	return &RedisFeedCache{client: client}
}

func feedKey(page, limit int) string {
	return fmt.Sprintf("feed:global:latest:p%d:l%d", page, limit)
}

// GetGlobalLatest returns a cached page, reporting a miss on any error.
func (c *RedisFeedCache) GetGlobalLatest(ctx context.Context, page, limit int) ([]models.Post, int64, bool) {
	raw, err := c.client.Get(ctx, feedKey(page, limit)).Result()
	if err != nil {
		return nil, 0, false
	}

	var cached cachedFeedPage
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, 0, false
	}
	return cached.Posts, cached.Total, true
}

// SetGlobalLatest stores a page with a short TTL. Errors are ignored; the
// cache is an accelerator, never a source of truth.
func (c *RedisFeedCache) SetGlobalLatest(ctx context.Context, page, limit int, posts []models.Post, total int64) {
	raw, err := json.Marshal(cachedFeedPage{Posts: posts, Total: total})
	if err != nil {
		return
	}
	c.client.Set(ctx, feedKey(page, limit), raw, feedTTL)
}

// InvalidateGlobal drops all cached global feed pages after a post write.
func (c *RedisFeedCache) InvalidateGlobal(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, "feed:global:latest:*", 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
