package mw

import (
	"net"
	"net/http"
	"sync"
	"time"

	"skillswap/backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const sweepInterval = 30 * time.Second

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RL hands out one token bucket per key. Buckets idle for longer than idle are swept.
type RL struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(limit rate.Limit, burst int, idle time.Duration) *RL {
	return &RL{
		limit:   limit,
		burst:   burst,
		idle:    idle,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
}

// Allow consumes one token from key's bucket.
func (rl *RL) Allow(key string) bool {
	now := time.Now()
	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()
	return b.limiter.AllowN(now, 1)
}

// Sweep drops buckets not used since now-idle and returns how many went.
func (rl *RL) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idle {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// Len is the number of live buckets.
func (rl *RL) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Run sweeps idle buckets until Stop.
func (rl *RL) Run() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.Sweep(now)
		}
	}
}

func (rl *RL) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// RateLimit limits each client per route. The route template is used when gin matched
// one, so /api/swaps/1 and /api/swaps/2 share a bucket.
func RateLimit(rl *RL) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if !rl.Allow(clientIP(c.Request.RemoteAddr) + " " + route) {
			metrics.HttpRateLimitedTotal.WithLabelValues(route).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func clientIP(remote string) string {
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}
	return remote
}
