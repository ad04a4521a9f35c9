package providers

import (
	"questlog/internal/structures"
	"sync"

	"golang.org/x/time/rate"
)

const maxTrackedKeys = 10000

type RateLimiterInterface interface {
	Allow(key string) bool
}

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(conf *structures.Config) RateLimiterInterface {
	rl := conf.Cloud.RateLimit
	if rl.PerSecond <= 0 {
		return &noopLimiter{}
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rl.PerSecond),
		burst:    max(rl.Burst, 1),
	}
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[key]
	if !ok {
		if len(r.limiters) >= maxTrackedKeys {
			r.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[key] = l
	}
	return l.Allow()
}

type noopLimiter struct{}

func (n *noopLimiter) Allow(_ string) bool { return true }
