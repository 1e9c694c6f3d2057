package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
)

const limiterIdleTTL = 5 * time.Minute

type bucket struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter keeps one token bucket per authenticated user, falling back to
// the client IP for anonymous requests.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewRateLimiter allows perMinute requests per key. Zero or less disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	r := &RateLimiter{
		buckets: map[string]*bucket{},
		limit:   rate.Inf,
		burst:   1,
		now:     time.Now,
	}
	if perMinute > 0 {
		r.limit = rate.Every(time.Minute / time.Duration(perMinute))
		r.burst = max(perMinute/2, 1)
	}

	return r
}

func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := "ip:" + ctx.ClientIP()
		if claims, ok := ClaimsFromContext(ctx); ok {
			key = "user:" + claims.Subject
		}

		if !r.allow(key) {
			response.RenderErr(ctx, response.ErrTooManyRequests())
			return
		}

		ctx.Next()
	}
}

func (r *RateLimiter) allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, b := range r.buckets {
		if now.After(b.expires) {
			delete(r.buckets, k)
		}
	}

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.buckets[key] = b
	}
	b.expires = now.Add(limiterIdleTTL)

	return b.limiter.AllowN(now, 1)
}
