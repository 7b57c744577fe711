package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/hzqula/portal-gateway/internal/pkg/request"
	"github.com/hzqula/portal-gateway/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterRegistry struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
}

func newLimiterRegistry(rps float64, burst int) *limiterRegistry {
	return &limiterRegistry{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (r *limiterRegistry) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(r.rps, r.burst)}
		r.entries[key] = entry
	}
	entry.lastSeen = time.Now()

	// Bersihkan entry lama sekalian, supaya map tidak tumbuh terus.
	if len(r.entries) > 10000 {
		cutoff := time.Now().Add(-10 * time.Minute)
		for k, e := range r.entries {
			if e.lastSeen.Before(cutoff) {
				delete(r.entries, k)
			}
		}
	}

	return entry.limiter
}

// RateLimitByIP membatasi request per alamat IP.
func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	registry := newLimiterRegistry(rps, burst)

	return func(c *gin.Context) {
		if !registry.get(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Terlalu banyak request. Coba lagi sebentar lagi.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitBySession membatasi request per portal session, untuk endpoint
// yang butuh identitas lebih stabil daripada IP.
func RateLimitBySession(rps float64, burst int) gin.HandlerFunc {
	registry := newLimiterRegistry(rps, burst)

	return func(c *gin.Context) {
		key := c.GetString(request.GinSessionIDKey)
		if key == "" {
			key = c.ClientIP()
		}
		if !registry.get(key).Allow() {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Terlalu banyak request. Coba lagi sebentar lagi.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
