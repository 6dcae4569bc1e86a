// internal/recommend/cache.go
package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"movienight-backend/internal/common/logger"
	"movienight-backend/internal/common/metrics"
	"movienight-backend/internal/models"
)

// ResponseCache is a best-effort Redis cache for assembled recommendation
// responses, keyed by the embedding query text. A Redis outage is a miss,
// never a request failure.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewResponseCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ResponseCache {
	return &ResponseCache{
		client: client,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "response-cache"}),
	}
}

// CacheKey derives the cache key from the full query text, so two groups
// with identical preferences and duration share an entry.
func CacheKey(queryText string) string {
	sum := sha256.Sum256([]byte(queryText))
	return "recommendation:" + hex.EncodeToString(sum[:])
}

func (c *ResponseCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *ResponseCache) Get(ctx context.Context, key string) (*models.RecommendationResponse, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed", map[string]interface{}{"error": err.Error()})
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var resp models.RecommendationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", map[string]interface{}{"key": key})
		_ = c.client.Del(ctx, key).Err()
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &resp, true
}

func (c *ResponseCache) Put(ctx context.Context, key string, resp *models.RecommendationResponse) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache put failed", map[string]interface{}{"error": err.Error()})
	}
}
