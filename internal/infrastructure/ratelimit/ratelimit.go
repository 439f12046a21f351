// Package ratelimit implements sliding-window request limits, shared through
// Redis when available and per-process otherwise.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Limiter interface {
	// Allow records a request for key and reports whether it fits the window.
	Allow(ctx context.Context, key string) (bool, error)
	Max() int
}

// slidingWindowScript trims the window, then adds the request only if the
// window still has room, all atomically.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local cutoff = tonumber(ARGV[2])
local max_requests = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, cutoff)
if redis.call('ZCARD', key) >= max_requests then
	return 0
end
redis.call('ZADD', key, now, ARGV[5])
redis.call('PEXPIRE', key, ttl_ms)
return 1
`)

type RedisLimiter struct {
	client *redis.Client
	name   string
	max    int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, name string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, name: name, max: max, window: window, now: time.Now}
}

func (l *RedisLimiter) Max() int { return l.max }

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	nowMs := now.UnixMilli()
	cutoff := now.Add(-l.window).UnixMilli()
	member := fmt.Sprintf("%d:%s", nowMs, uuid.NewString())

	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{"ratelimit:" + l.name + ":" + key},
		nowMs, cutoff, l.max, (l.window + time.Second).Milliseconds(), member,
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return res == 1, nil
}

// MemoryLimiter is a single-process sliding window. Idle keys are swept
// every cleanupInterval.
type MemoryLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	requests map[string][]time.Time

	lastCleanup     time.Time
	cleanupInterval time.Duration
	now             func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:             max,
		window:          window,
		requests:        make(map[string][]time.Time),
		lastCleanup:     time.Now(),
		cleanupInterval: 5 * time.Minute,
		now:             time.Now,
	}
}

func (l *MemoryLimiter) Max() int { return l.max }

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	l.maybeCleanup(now, cutoff)

	kept := l.requests[key][:0]
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.requests[key] = kept
		return false, nil
	}
	l.requests[key] = append(kept, now)
	return true, nil
}

func (l *MemoryLimiter) maybeCleanup(now, cutoff time.Time) {
	if now.Sub(l.lastCleanup) < l.cleanupInterval {
		return
	}
	l.lastCleanup = now
	for key, times := range l.requests {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(l.requests, key)
		}
	}
}

// New returns a Redis limiter when client is non-nil, otherwise an in-memory one.
func New(client *redis.Client, name string, max int, window time.Duration) Limiter {
	if client != nil {
		return NewRedisLimiter(client, name, max, window)
	}
	return NewMemoryLimiter(max, window)
}
