package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/health-advisor-server/internal/domain"
)

// clientLimiter pairs a token bucket with its last use, so idle entries can
// be evicted.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket. Clients are keyed by IP.
type RateLimiter struct {
	logger  *logrus.Logger
	config  *domain.RateLimitConfig
	clients map[string]*clientLimiter
	mu      sync.Mutex
}

// NewRateLimiter creates a rate limiter from configuration and starts the
// idle-client cleanup loop.
func NewRateLimiter(config *domain.RateLimitConfig, logger *logrus.Logger) *RateLimiter {
	rl := &RateLimiter{
		logger:  logger,
		config:  config,
		clients: make(map[string]*clientLimiter),
	}
	go rl.cleanupLoop()
	return rl
}

// Handler returns the gin middleware enforcing the limit. Requests over the
// limit receive 429 with a structured error body.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.config.Enabled {
			c.Next()
			return
		}

		if !rl.allow(c.ClientIP()) {
			rl.logger.WithField("client_ip", c.ClientIP()).Warn("Request rejected by rate limiter")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewAPIError(
				domain.ErrRateLimit,
				"Too many requests",
				"Retry after a short delay",
				c.GetString("correlation_id"),
			))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if time.Since(client.lastSeen) > time.Hour {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}
