// Package ratelimiter implements fixed-window rate limiting keyed by an
// arbitrary identifier (client IP, account, API key).
//
// Each key owns a counter that resets when its window elapses. A Limiter
// applies a Config (Limit attempts per Window) on top of a Store:
//
//	store := ratelimiter.NewMemoryStore()
//	store.Start()
//	defer store.Stop()
//
//	limiter, err := ratelimiter.New(store, ratelimiter.Config{
//		Limit:  10,
//		Window: time.Minute,
//	})
//
//	res, err := limiter.Allow(ctx, clientIP)
//	if err == nil && !res.Allowed {
//		// reject, res.RetryAfter() until the window resets
//	}
//
// MemoryStore is in-process and therefore advisory under multi-instance
// deployments: each instance counts independently. RedisStore shares
// counters across instances for deployments that need real enforcement.
package ratelimiter
