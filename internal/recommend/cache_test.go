// internal/recommend/cache_test.go
package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movienight-backend/internal/common/logger"
	"movienight-backend/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResponseCache(client, ttl, logger.NewTestLogger(t)), mr
}

func sampleResponse() *models.RecommendationResponse {
	title := "Inception"
	return &models.RecommendationResponse{
		Recommendations: []models.RecommendationPick{{Title: &title}},
		Explanation:     "A serious pick for a serious group.",
		AllMatches:      []models.MovieMatch{{Title: "Inception", Similarity: 0.91}},
	}
}

func TestResponseCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	key := CacheKey("Group of 2 people with 120 minutes to watch. Preferences:\n...")

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok)

	cache.Put(ctx, key, sampleResponse())

	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	require.NotNil(t, got.Recommendations[0].Title)
	assert.Equal(t, "Inception", *got.Recommendations[0].Title)
	assert.Equal(t, "A serious pick for a serious group.", got.Explanation)
}

func TestResponseCache_EntryExpires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	key := CacheKey("query")

	cache.Put(ctx, key, sampleResponse())
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok)
}

func TestResponseCache_CorruptEntryIsDropped(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	key := CacheKey("query")

	require.NoError(t, mr.Set(key, "{not json"))

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok)
	assert.False(t, mr.Exists(key))
}

func TestResponseCache_NilCacheIsDisabled(t *testing.T) {
	var cache *ResponseCache
	ctx := context.Background()

	// Both paths are no-ops on an absent cache.
	cache.Put(ctx, "key", sampleResponse())
	_, ok := cache.Get(ctx, "key")
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("same query")
	b := CacheKey("same query")
	c := CacheKey("different query")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "recommendation:")
	assert.Len(t, a, len("recommendation:")+64)
}
