package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"dormwash/internal/pkg/response"
)

// visitorLimits hands out one token bucket per client IP. Entries are kept
// for the lifetime of the process.
type visitorLimits struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	perSec  rate.Limit
	burst   int
}

func (v *visitorLimits) bucket(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	if l, ok := v.buckets[ip]; ok {
		return l
	}
	l := rate.NewLimiter(v.perSec, v.burst)
	v.buckets[ip] = l
	return l
}

// RateLimiter rejects clients that exceed the per-IP request budget.
func RateLimiter(perSec rate.Limit, burst int) gin.HandlerFunc {
	limits := &visitorLimits{
		buckets: make(map[string]*rate.Limiter),
		perSec:  perSec,
		burst:   burst,
	}
	return func(c *gin.Context) {
		if !limits.bucket(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
