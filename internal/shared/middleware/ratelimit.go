package middleware

import (
	"net/http"
	"sync"
	"time"

	"talenta-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per key (caller id or address).
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute events per key with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

func (r *RateLimiter) allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, e := range r.limiters {
		if now.Sub(e.lastSeen) > r.idle {
			delete(r.limiters, k)
		}
	}

	e, ok := r.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Middleware keys on the authenticated user when present.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(clientIPKey)
		if key == "" {
			key = c.ClientIP()
		}
		if actor := ActorFrom(c); actor != nil {
			key = actor.UserID.String()
		}

		if !r.allow(key) {
			c.Header("Retry-After", "60")
			response.Error(c, http.StatusTooManyRequests, "Too many uploads, please try again later", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
