package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/webcore/pkg/ratelimiter"
)

func TestMemoryStoreIncr(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("counts within a window", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		for want := int64(1); want <= 5; want++ {
			count, resetAt, err := store.Incr(ctx, "key", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, count)
			assert.True(t, resetAt.After(time.Now()))
		}
	})

	t.Run("reset time is stable within a window", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		_, first, err := store.Incr(ctx, "key", time.Minute)
		require.NoError(t, err)
		_, second, err := store.Incr(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := store.Incr(ctx, "key", time.Minute)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		count, _, err := store.Incr(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(51), count)
	})
}

func TestMemoryStoreReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()

	_, _, err := store.Incr(ctx, "key", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "key"))

	count, _, err := store.Incr(ctx, "key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStoreCleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(10 * time.Millisecond))
	store.Start()
	defer store.Stop()

	_, _, err := store.Incr(ctx, "short", 5*time.Millisecond)
	require.NoError(t, err)
	_, _, err = store.Incr(ctx, "long", time.Hour)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		stats := store.Stats()
		return stats.ActiveWindows == 1 && stats.WindowsRemoved >= 1
	}, time.Second, 10*time.Millisecond, "elapsed window is swept")

	stats := store.Stats()
	assert.True(t, stats.IsRunning)
	assert.Equal(t, int64(2), stats.WindowsCreated)
}

func TestMemoryStoreStartStop(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(time.Minute))

	store.Start()
	store.Start() // second start is a no-op
	assert.True(t, store.Stats().IsRunning)

	store.Stop()
	store.Stop() // second stop is a no-op
	assert.False(t, store.Stats().IsRunning)
}
