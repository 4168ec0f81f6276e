// Package middleware contains the Gin middleware used by the operator API.
//
// RateLimiter keeps one golang.org/x/time/rate bucket per client IP. Path
// params are caller-chosen, so they never pick the bucket.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxRetryAfter caps the Retry-After hint for very slow refill rates.
const maxRetryAfter = 60

// keyFunc maps a request to its bucket identity.
type keyFunc func(*gin.Context) string

// KeyByClientIP keys by gin's ClientIP, which honours the engine's trusted
// proxy settings.
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	sweepEach time.Duration
	lastSweep time.Time
}

// NewRateLimiter builds a limiter refilling rps tokens per second with the
// given burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		keyFn:     keyFn,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		idleTTL:   10 * time.Minute,
		sweepEach: time.Minute,
	}
}

// limiterFor returns the bucket for key, creating it on first use. Buckets
// idle for idleTTL are dropped at most once per sweepEach.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.sweepEach {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// Handler rejects requests over budget with 429 and the too_many_requests
// envelope. Retry-After is the wait until the next token, in whole seconds.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := rl.now()

		res := rl.limiterFor(rl.keyFn(c)).ReserveN(now, 1)
		wait := res.DelayFrom(now)
		if res.OK() && wait == 0 {
			c.Next()
			return
		}
		res.CancelAt(now)

		httpRateLimited.WithLabelValues(routeLabel(c)).Inc()
		c.Header("Retry-After", strconv.Itoa(retryAfter(res.OK(), wait)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": RequestIDFrom(c),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}

func retryAfter(ok bool, wait time.Duration) int {
	if !ok {
		return maxRetryAfter
	}
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		return 1
	}
	return min(secs, maxRetryAfter)
}
