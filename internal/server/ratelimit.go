package server

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter manages per-key token bucket rate limiting.
// Each unique key gets its own independent [rate.Limiter].
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewKeyedRateLimiter creates a limiter allowing rps requests per second per key with the given burst.
func NewKeyedRateLimiter(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request for key may proceed now.
func (k *KeyedRateLimiter) Allow(key string) bool {
	return k.limiter(key).Allow()
}

// Wait blocks until a request for key is allowed or ctx is canceled.
func (k *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return k.limiter(key).Wait(ctx)
}

func (k *KeyedRateLimiter) limiter(key string) *rate.Limiter {
	k.mu.RLock()
	limiter, ok := k.limiters[key]
	k.mu.RUnlock()
	if ok {
		return limiter
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if limiter, ok = k.limiters[key]; ok {
		return limiter
	}

	limiter = rate.NewLimiter(k.limit, k.burst)
	k.limiters[key] = limiter
	return limiter
}
