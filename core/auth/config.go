package auth

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/taskhub/webcore/pkg/ratelimiter"
)

// Config holds auth guard configuration.
type Config struct {
	// ActivityTimeout is the idle timeout applied to Data.LastActivity,
	// independent of the persisted sliding expiration. 0 disables it.
	ActivityTimeout time.Duration
	// LoginLimiter rate limits login attempts keyed by client IP. Optional
	// and advisory: limiter failures never block logins.
	LoginLimiter *ratelimiter.Limiter
	// Logger receives recovered infrastructure failures.
	Logger *slog.Logger
}

func defaultConfig() *Config {
	return &Config{
		ActivityTimeout: 15 * time.Minute,
	}
}

// Option is a functional option for configuring the auth guard.
type Option func(*Config)

// WithActivityTimeout sets the idle timeout. 0 disables the check.
func WithActivityTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ActivityTimeout = d
		}
	}
}

// WithLoginLimiter sets the login attempt rate limiter.
func WithLoginLimiter(l *ratelimiter.Limiter) Option {
	return func(c *Config) {
		c.LoginLimiter = l
	}
}

// WithLogger sets the logger for recovered failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

type guardLogger struct {
	log *slog.Logger
}

func newGuardLogger(log *slog.Logger) guardLogger {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return guardLogger{log: log}
}

func (l guardLogger) warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}
