package ratelimiter

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// window is one fixed counting window for a key.
type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore implements Store with in-process counters. It is advisory
// only: counters are not shared across processes or instances, so under a
// multi-instance deployment each instance enforces the limit independently.
// Use RedisStore where cross-instance enforcement is required.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	cleanupInterval time.Duration
	logger          *slog.Logger

	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	windowsCreated atomic.Int64
	windowsRemoved atomic.Int64
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often elapsed windows are removed.
// Set to 0 to disable background cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore creates an in-memory fixed-window store.
// Call Start to begin background cleanup of elapsed windows.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: 5 * time.Minute,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// Incr implements Store.
func (ms *MemoryStore) Incr(_ context.Context, key string, dur time.Duration) (int64, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	w, ok := ms.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(dur)}
		if !ok {
			ms.windowsCreated.Add(1)
		}
		ms.windows[key] = w
	}

	w.count++
	return w.count, w.resetAt, nil
}

// Reset implements Store.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.windows, key)
	return nil
}

// Start launches the background cleanup goroutine. No-op when cleanup is
// disabled or already running.
func (ms *MemoryStore) Start() {
	if ms.cleanupInterval <= 0 || !ms.running.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ms.cancel = cancel

	ms.wg.Add(1)
	go func() {
		defer ms.wg.Done()

		ticker := time.NewTicker(ms.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := ms.removeElapsed()
				if removed > 0 {
					ms.logger.Debug("rate limiter cleanup", "removed", removed)
				}
			}
		}
	}()
}

// Stop terminates background cleanup and waits for it to finish.
func (ms *MemoryStore) Stop() {
	if !ms.running.CompareAndSwap(true, false) {
		return
	}
	ms.cancel()
	ms.wg.Wait()
}

func (ms *MemoryStore) removeElapsed() int64 {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var removed int64
	for key, w := range ms.windows {
		if !now.Before(w.resetAt) {
			delete(ms.windows, key)
			removed++
		}
	}
	ms.windowsRemoved.Add(removed)
	return removed
}

// MemoryStoreStats provides observability counters for monitoring.
type MemoryStoreStats struct {
	WindowsCreated int64
	WindowsRemoved int64
	ActiveWindows  int
	IsRunning      bool
}

// Stats returns a snapshot of the store's counters.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	active := len(ms.windows)
	ms.mu.Unlock()

	return MemoryStoreStats{
		WindowsCreated: ms.windowsCreated.Load(),
		WindowsRemoved: ms.windowsRemoved.Load(),
		ActiveWindows:  active,
		IsRunning:      ms.running.Load(),
	}
}
