package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-advisor-server/internal/domain"
)

func newMemoryCache(t *testing.T) *ResultCache {
	t.Helper()
	cache, err := NewResultCache(&domain.CacheConfig{
		Enabled:    true,
		MaxItems:   8,
		DefaultTTL: time.Minute,
	}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestResultCacheKeyDeterministic(t *testing.T) {
	cache := newMemoryCache(t)

	a := sampleMetrics()
	b := sampleMetrics()
	assert.Equal(t, cache.Key(a), cache.Key(b))

	b.Smoking = true
	assert.NotEqual(t, cache.Key(a), cache.Key(b))
}

func TestResultCacheKeyNonEncodableMetrics(t *testing.T) {
	// NaN metrics cannot be JSON-encoded; the key stays well-formed and
	// deterministic instead of hashing an empty payload.
	cache := newMemoryCache(t)

	m := sampleMetrics()
	m.BMI = math.NaN()

	key := cache.Key(m)
	assert.Len(t, key, 64)
	assert.Equal(t, key, cache.Key(m))
	assert.NotEqual(t, cache.Key(sampleMetrics()), key)
}

func TestResultCacheGetSet(t *testing.T) {
	cache := newMemoryCache(t)
	ctx := context.Background()
	key := cache.Key(sampleMetrics())

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok)

	result := &domain.AssessmentResult{
		AssessmentID: "abc-123",
		RiskLevel:    domain.RISK_MEDIUM,
		RiskScore:    0.35,
	}
	cache.Set(ctx, key, result)

	cached, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, result, cached)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.MemoryHits)
	assert.Equal(t, int64(1), stats.MemoryMisses)
}

func TestResultCacheInvalidRedisURL(t *testing.T) {
	_, err := NewResultCache(&domain.CacheConfig{
		Enabled:  true,
		MaxItems: 8,
		RedisURL: "://not-a-url",
	}, testLogger())
	assert.Error(t, err)
}

func TestResultCacheDefaults(t *testing.T) {
	// Zero-valued config falls back to safe capacity and TTL.
	cache, err := NewResultCache(&domain.CacheConfig{Enabled: true}, testLogger())
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "k", &domain.AssessmentResult{AssessmentID: "x"})
	cached, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "x", cached.AssessmentID)
}
