package session

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Config holds session manager configuration.
type Config struct {
	// TTL is the sliding time-to-live persisted in the store.
	TTL time.Duration
	// TouchInterval is the minimum time between expiration extensions,
	// throttling store writes on hot sessions.
	TouchInterval time.Duration
	// Logger receives persistence failures that are recovered from.
	Logger *slog.Logger
}

func defaultConfig() *Config {
	return &Config{
		TTL:           24 * time.Hour,
		TouchInterval: 5 * time.Minute,
	}
}

// Option is a functional option for configuring the session manager.
type Option func(*Config)

// WithTTL sets the sliding session time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		if ttl > 0 {
			c.TTL = ttl
		}
	}
}

// WithTouchInterval sets the minimum time between expiration extensions.
// Set to 0 to touch on every request.
func WithTouchInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval >= 0 {
			c.TouchInterval = interval
		}
	}
}

// WithLogger sets the logger for recovered persistence failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// logOrDiscard wraps an optional slog.Logger with a discard default.
type logOrDiscard struct {
	log *slog.Logger
}

func newLogOrDiscard(log *slog.Logger) *logOrDiscard {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &logOrDiscard{log: log}
}

func (l *logOrDiscard) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
