package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config defines a fixed time window policy: at most Limit attempts per
// Window per key.
type Config struct {
	Limit  int
	Window time.Duration
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, c.Window)
	}
	return nil
}

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long until the window resets. Zero when the
// request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r == nil || r.Allowed {
		return 0
	}
	if d := time.Until(r.ResetAt); d > 0 {
		return d
	}
	return 0
}

// Store counts attempts per key within fixed windows. Implementations must
// be safe for concurrent use.
type Store interface {
	// Incr increments the counter for key, starting a fresh window when the
	// previous one elapsed, and returns the new count and the window reset
	// time.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)

	// Reset clears the counter for key.
	Reset(ctx context.Context, key string) error
}

// Limiter applies a fixed-window policy on top of a Store.
type Limiter struct {
	store Store
	cfg   Config
}

// New creates a limiter with the given store and policy.
func New(store Store, cfg Config) (*Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Limiter{store: store, cfg: cfg}, nil
}

// Allow records one attempt for key and reports whether it fits the window.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	remaining := l.cfg.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= int64(l.cfg.Limit),
		Limit:     l.cfg.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for key, e.g. after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
