package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/palemoky/forhonor-db/internal/errors"
)

const msgQuotaSpent = "request quota for this client is spent, retry shortly"

// RateLimiter throttles API clients with one token bucket per remote IP.
// Buckets refill at rps and hold at most burst tokens.
type RateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter from the rate_limit config section
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// bucket returns the token bucket of client, creating it on first request
func (rl *RateLimiter) bucket(client string) *rate.Limiter {
	rl.mu.RLock()
	b, ok := rl.buckets[client]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// another request may have created it meanwhile
	if b, ok := rl.buckets[client]; ok {
		return b
	}
	b = rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[client] = b
	return b
}

// Clients returns the number of clients seen so far
func (rl *RateLimiter) Clients() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.buckets)
}

// Middleware rejects a request with 429 once its client bucket is empty
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.bucket(c.ClientIP()).Allow() {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": msgQuotaSpent,
			"code":  apperrors.KindRateLimited,
		})
	}
}
