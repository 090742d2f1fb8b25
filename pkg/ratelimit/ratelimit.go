// Package ratelimit throttles clients with a Redis-backed GCRA limiter so
// the budget holds across replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of spending one unit of a key's budget.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// Limiter enforces one per-second rule over keys sharing a prefix. The rule
// is fixed at construction, so a limiter guards exactly one surface and its
// keys cannot collide with another limiter's.
type Limiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
	prefix  string
}

// New builds a limiter allowing qps requests per second per key, with burst
// extra headroom. Keys are stored under prefix in Redis.
func New(rdb *redis.Client, prefix string, qps, burst int) *Limiter {
	return &Limiter{
		limiter: redis_rate.NewLimiter(rdb),
		limit:   redis_rate.Limit{Rate: qps, Period: time.Second, Burst: burst},
		prefix:  prefix,
	}
}

// Allow spends one unit of key's budget.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := l.limiter.Allow(ctx, l.prefix+":"+key, l.limit)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	return Decision{
		Allowed:    res.Allowed > 0,
		Limit:      l.limit.Burst,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}
