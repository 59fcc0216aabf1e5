package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bgoldmann/darkstore/internal/delivery/http/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ActorRateLimiter keeps one token bucket per actor, falling back to client IP before auth.
// Buckets unused for IdleTTL are dropped by Cleanup.
type ActorRateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	r        rate.Limit
	b        int
	IdleTTL  time.Duration

	now func() time.Time
}

func NewActorRateLimiter(r rate.Limit, b int) *ActorRateLimiter {
	return &ActorRateLimiter{
		limiters: make(map[string]*limiterEntry),
		r:        r,
		b:        b,
		IdleTTL:  defaultLimiterIdleTTL,
		now:      time.Now,
	}
}

func (l *ActorRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.limiters[key] = entry
	}
	entry.lastSeen = l.now()
	return entry.limiter
}

// Cleanup drops idle buckets and returns how many remain.
func (l *ActorRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.IdleTTL)
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
	return len(l.limiters)
}

func (l *ActorRateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}

func (l *ActorRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if actor, ok := ActorFrom(c); ok {
			key = "actor:" + actor.ID
		}
		if !l.GetLimiter(key).Allow() {
			response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
