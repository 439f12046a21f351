package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestMemoryLimiterSlidingWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewMemoryLimiter(3, time.Minute)
	l.now = clock.Now
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, ok)
		clock.Advance(10 * time.Second)
	}

	ok, _ := l.Allow(ctx, "u1")
	assert.False(t, ok, "fourth request inside the window")

	ok, _ = l.Allow(ctx, "u2")
	assert.True(t, ok, "keys are independent")

	// The first request was at t=0; at t=61s it has left the window.
	clock.Advance(31 * time.Second)
	ok, _ = l.Allow(ctx, "u1")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "u1")
	assert.False(t, ok)
}

func TestMemoryLimiterCleanupDropsIdleKeys(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewMemoryLimiter(1, time.Minute)
	l.now = clock.Now
	l.lastCleanup = clock.Now()
	ctx := context.Background()

	_, _ = l.Allow(ctx, "idle")
	clock.Advance(6 * time.Minute)
	_, _ = l.Allow(ctx, "active")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.requests, "idle")
	assert.Contains(t, l.requests, "active")
}

func TestMemoryLimiterConcurrent(t *testing.T) {
	l := NewMemoryLimiter(50, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(ctx, "k"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestNewFallsBackToMemory(t *testing.T) {
	l := New(nil, "chat", 30, time.Minute)
	assert.IsType(t, &MemoryLimiter{}, l)
	assert.Equal(t, 30, l.Max())
}
