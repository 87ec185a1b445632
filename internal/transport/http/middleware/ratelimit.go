package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "github.com/niranjcn/ConfessIt/internal/transport/http/response"
)

const maxIPBuckets = 10000

func tooMany(c *gin.Context) {
	c.AbortWithStatusJSON(resp.CodeTooManyRequests, resp.Error(resp.CodeTooManyRequests, resp.KindRateLimited, "too many requests"))
}

// RateLimit is a global token bucket.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		tooMany(c)
	}
}

// RateLimitPerIP keeps one bucket per client IP. The table is dropped once it
// reaches maxIPBuckets.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := buckets[ip]
		if !ok {
			if len(buckets) >= maxIPBuckets {
				buckets = make(map[string]*rate.Limiter)
			}
			lim = rate.NewLimiter(rps, burst)
			buckets[ip] = lim
		}
		mu.Unlock()
		if lim.Allow() {
			c.Next()
			return
		}
		tooMany(c)
	}
}
