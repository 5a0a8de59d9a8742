package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/health-advisor-server/internal/domain"
)

// ResultCache caches risk assessment results keyed by a digest of the input
// metrics. The engine is deterministic, so identical inputs always produce
// the same result and are safe to serve from cache.
//
// Two tiers: an in-memory expirable LRU, and an optional Redis tier guarded
// by a circuit breaker so a degraded Redis never blocks assessment.
type ResultCache struct {
	memory  *expirable.LRU[string, *domain.AssessmentResult]
	redis   *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	logger  *logrus.Logger

	statsMu sync.RWMutex
	stats   CacheStats
}

// CacheStats tracks cache performance counters.
type CacheStats struct {
	MemoryHits   int64 `json:"memory_hits"`
	MemoryMisses int64 `json:"memory_misses"`
	RedisHits    int64 `json:"redis_hits"`
	RedisMisses  int64 `json:"redis_misses"`
	RedisErrors  int64 `json:"redis_errors"`
}

// NewResultCache creates a result cache from configuration. The Redis tier
// is attached only when cfg.RedisURL is set; otherwise the cache is purely
// in-memory.
func NewResultCache(cfg *domain.CacheConfig, logger *logrus.Logger) (*ResultCache, error) {
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 1000
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	cache := &ResultCache{
		memory: expirable.NewLRU[string, *domain.AssessmentResult](maxItems, nil, ttl),
		ttl:    ttl,
		logger: logger,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		if cfg.PoolSize > 0 {
			opts.PoolSize = cfg.PoolSize
		}
		if cfg.PoolTimeout > 0 {
			opts.PoolTimeout = cfg.PoolTimeout
		}
		cache.redis = redis.NewClient(opts)
		cache.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "AssessmentResultCache",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"circuit_breaker": name,
					"from_state":      from.String(),
					"to_state":        to.String(),
				}).Warn("Cache circuit breaker state changed")
			},
		})
	}

	return cache, nil
}

// Key derives the deterministic cache key for a metrics record: a SHA-256
// digest of its canonical JSON encoding.
func (rc *ResultCache) Key(metrics *domain.HealthMetrics) string {
	payload, err := json.Marshal(metrics)
	if err != nil {
		// Marshal fails only for NaN or infinite floats, which validation
		// rejects before any cache access. Fall back to the fmt rendering,
		// which is equally deterministic, rather than return a broken key.
		payload = []byte(fmt.Sprintf("%#v", *metrics))
	}
	digest := sha256.Sum256(append([]byte("assess-risk::"), payload...))
	return hex.EncodeToString(digest[:])
}

// Get looks a result up, memory tier first, then Redis. Redis failures are
// recorded and swallowed; a cache problem must never fail an assessment.
func (rc *ResultCache) Get(ctx context.Context, key string) (*domain.AssessmentResult, bool) {
	if result, ok := rc.memory.Get(key); ok {
		rc.record(func(s *CacheStats) { s.MemoryHits++ })
		return result, true
	}
	rc.record(func(s *CacheStats) { s.MemoryMisses++ })

	if rc.redis == nil {
		return nil, false
	}

	payload, err := rc.breaker.Execute(func() (interface{}, error) {
		return rc.redis.Get(ctx, key).Bytes()
	})
	if err != nil {
		if err == redis.Nil {
			rc.record(func(s *CacheStats) { s.RedisMisses++ })
		} else {
			rc.record(func(s *CacheStats) { s.RedisErrors++ })
			rc.logger.WithError(err).Debug("Redis cache lookup failed")
		}
		return nil, false
	}

	var result domain.AssessmentResult
	if err := json.Unmarshal(payload.([]byte), &result); err != nil {
		rc.record(func(s *CacheStats) { s.RedisErrors++ })
		rc.logger.WithError(err).Warn("Failed to decode cached assessment")
		return nil, false
	}

	rc.record(func(s *CacheStats) { s.RedisHits++ })
	rc.memory.Add(key, &result)
	return &result, true
}

// Set stores a result in both tiers.
func (rc *ResultCache) Set(ctx context.Context, key string, result *domain.AssessmentResult) {
	rc.memory.Add(key, result)

	if rc.redis == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		rc.logger.WithError(err).Warn("Failed to encode assessment for cache")
		return
	}

	if _, err := rc.breaker.Execute(func() (interface{}, error) {
		return nil, rc.redis.Set(ctx, key, payload, rc.ttl).Err()
	}); err != nil {
		rc.record(func(s *CacheStats) { s.RedisErrors++ })
		rc.logger.WithError(err).Debug("Redis cache store failed")
	}
}

// Stats returns a snapshot of the cache counters.
func (rc *ResultCache) Stats() CacheStats {
	rc.statsMu.RLock()
	defer rc.statsMu.RUnlock()
	return rc.stats
}

// Close releases the Redis connection, if any.
func (rc *ResultCache) Close() error {
	if rc.redis != nil {
		return rc.redis.Close()
	}
	return nil
}

func (rc *ResultCache) record(update func(*CacheStats)) {
	rc.statsMu.Lock()
	defer rc.statsMu.Unlock()
	update(&rc.stats)
}
