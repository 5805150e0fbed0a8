package csrf

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"
)

// Config holds CSRF guard configuration.
type Config struct {
	// Lifetime of an issued token, independent of session expiration.
	Lifetime time.Duration
	// TokenLength is the raw token size in bytes; the wire format is its
	// hex encoding (2x characters).
	TokenLength int
	// SweepProbability is the chance [0,1) that any single Validate call
	// runs the expired-token sweep.
	SweepProbability float64
	// Logger receives recovered housekeeping failures.
	Logger *slog.Logger

	randFloat func() float64
}

func defaultConfig() *Config {
	return &Config{
		Lifetime:         time.Hour,
		TokenLength:      32,
		SweepProbability: 0.01,
		randFloat:        rand.Float64,
	}
}

// Option is a functional option for configuring the CSRF guard.
type Option func(*Config)

// WithLifetime sets the token lifetime.
func WithLifetime(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Lifetime = d
		}
	}
}

// WithTokenLength sets the raw token length in bytes.
func WithTokenLength(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.TokenLength = n
		}
	}
}

// WithSweepProbability sets the per-validation housekeeping probability.
func WithSweepProbability(p float64) Option {
	return func(c *Config) {
		if p >= 0 && p < 1 {
			c.SweepProbability = p
		}
	}
}

// WithLogger sets the logger for recovered housekeeping failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithRandFloat overrides the randomness source for the sweep lottery.
// Intended for tests.
func WithRandFloat(f func() float64) Option {
	return func(c *Config) {
		if f != nil {
			c.randFloat = f
		}
	}
}

// tokenLifetime computes expiry timestamps from a configured duration.
type tokenLifetime time.Duration

func (l tokenLifetime) expiry() time.Time {
	return time.Now().Add(time.Duration(l))
}

// guardLogger wraps an optional slog.Logger with a discard default.
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
