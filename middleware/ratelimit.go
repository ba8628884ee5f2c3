package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces per-route request quotas keyed by caller address.
// Counters live in Redis when a client is configured, otherwise in an
// in-process map. Each route carries its own independent quota.
type RateLimiter struct {
	redis *redis.Client

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis:   redisClient,
		buckets: make(map[string]*bucket),
	}
}

// Limit returns a middleware allowing at most max requests per window per
// client IP on the route it is attached to.
func (rl *RateLimiter) Limit(name string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())

		allowed, err := rl.allow(c.Request.Context(), key, max, window)
		if err != nil {
			// Counter backend failure never blocks traffic.
			c.Next()
			return
		}
		if !allowed {
			Fail(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	if rl.redis != nil {
		count, err := rl.redis.Incr(ctx, key).Result()
		if err != nil {
			return true, err
		}
		if count == 1 {
			rl.redis.Expire(ctx, key, window)
		}
		return count <= int64(max), nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok || now.After(b.resetAt) {
		rl.buckets[key] = &bucket{count: 1, resetAt: now.Add(window)}
		return true, nil
	}
	b.count++
	return b.count <= max, nil
}
