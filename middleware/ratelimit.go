package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taskhub/webcore/core/logger"
	"github.com/taskhub/webcore/pkg/clientip"
	"github.com/taskhub/webcore/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Limiter is the rate limiting implementation. Required.
	Limiter *ratelimiter.Limiter
	// KeyFunc extracts the limiting key from a request (default: client IP).
	KeyFunc func(r *http.Request) string
	// SetHeaders includes X-RateLimit-* information in responses.
	SetHeaders bool
	// Logger receives limiter failures (default: discard).
	Logger *slog.Logger
}

// RateLimit creates a rate limiting middleware keyed by client IP.
func RateLimit(limiter *ratelimiter.Limiter) Middleware {
	return RateLimitWithConfig(RateLimitConfig{Limiter: limiter})
}

// RateLimitWithConfig creates a rate limiting middleware.
//
// The limiter is advisory: if its store is unreachable the request proceeds
// and the failure is logged, so a broken counter cannot take the site down.
func RateLimitWithConfig(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(r *http.Request) string {
			if ip := clientip.GetIP(r); ip != "" {
				return ip
			}
			return r.RemoteAddr
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				cfg.Logger.LogAttrs(r.Context(), slog.LevelError, "rate limiter unavailable", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if cfg.SetHeaders {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}

			if !res.Allowed {
				retry := res.RetryAfter()
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
