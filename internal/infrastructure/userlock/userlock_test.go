package userlock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	unlock, ok, err := l.TryLock(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire while held")

	unlock2, ok, _ := l.TryLock(ctx, "user-2", time.Minute)
	assert.True(t, ok, "other keys are independent")
	unlock2()

	unlock()
	unlock3, ok, _ := l.TryLock(ctx, "user-1", time.Minute)
	assert.True(t, ok, "free after unlock")
	unlock3()
}

func TestMemoryLockerExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewMemoryLocker()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	staleUnlock, ok, _ := l.TryLock(ctx, "k", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	freshUnlock, ok, _ := l.TryLock(ctx, "k", time.Minute)
	require.True(t, ok, "expired lock can be taken over")

	// Releasing the expired holder must not free the new holder's lock.
	staleUnlock()
	_, ok, _ = l.TryLock(ctx, "k", time.Minute)
	assert.False(t, ok)

	freshUnlock()
	_, ok, _ = l.TryLock(ctx, "k", time.Minute)
	assert.True(t, ok)
}
