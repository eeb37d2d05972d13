package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// visitorIdleTTL is how long a key may stay silent before its bucket is dropped.
const visitorIdleTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors holds one token bucket per key. Buckets idle for longer than the
// TTL are evicted, checked at most once per TTL.
type Visitors struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	entries   map[string]*visitor
	lastSweep time.Time
}

func NewVisitors(r rate.Limit, b int, ttl time.Duration) *Visitors {
	return &Visitors{limit: r, burst: b, ttl: ttl, entries: make(map[string]*visitor)}
}

// Allow takes a token from key's bucket.
func (v *Visitors) Allow(key string) bool {
	return v.AllowAt(key, time.Now())
}

// AllowAt is Allow at the given instant.
func (v *Visitors) AllowAt(key string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if now.Sub(v.lastSweep) >= v.ttl {
		for k, e := range v.entries {
			if now.Sub(e.lastSeen) > v.ttl {
				delete(v.entries, k)
			}
		}
		v.lastSweep = now
	}

	e, exists := v.entries[key]
	if !exists {
		e = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len reports how many keys currently hold a bucket.
func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// RateLimiter keeps one token bucket per key in process memory.
func RateLimiter(r rate.Limit, b int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	visitors := NewVisitors(r, b, visitorIdleTTL)

	return func(c *gin.Context) {
		if !visitors.Allow(keyFunc(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// RateLimit allows Rate requests per key within a sliding Window.
type RateLimit struct {
	Rate    int
	Window  time.Duration
	KeyFunc func(*gin.Context) string
}

// DistributedRateLimiter shares its windows between instances through redis
// sorted sets.
type DistributedRateLimiter struct {
	redis redis.UniversalClient
}

func NewDistributedRateLimiter(client redis.UniversalClient) *DistributedRateLimiter {
	return &DistributedRateLimiter{redis: client}
}

// Middleware lets requests through when redis fails and marks the response
// with X-RateLimit-Error.
func (rl *DistributedRateLimiter) Middleware(name string, limit RateLimit) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", name, limit.KeyFunc(c))

		allowed, err := rl.checkLimit(c.Request.Context(), key, limit)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("Rate limit check failed")
			c.Header("X-RateLimit-Error", "true")
			c.Next()
			return
		}

		if !allowed {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
			c.Header("X-RateLimit-Window", limit.Window.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": limit.Window.Seconds(),
			})
			return
		}

		c.Next()
	}
}

func (rl *DistributedRateLimiter) checkLimit(ctx context.Context, key string, limit RateLimit) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - limit.Window.Nanoseconds()

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, limit.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	return countCmd.Val() < int64(limit.Rate), nil
}

func IPKeyFunc(c *gin.Context) string {
	return c.ClientIP()
}

// UserKeyFunc keys authenticated requests by caller and the rest by IP.
func UserKeyFunc(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return c.ClientIP()
	}
	return fmt.Sprintf("user:%v", userID)
}
