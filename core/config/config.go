package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilConfig is returned when a nil pointer is passed to Load.
var ErrNilConfig = errors.New("config: target must be a non-nil pointer to a struct")

var (
	cacheMu sync.Mutex
	cache   = map[reflect.Type]any{}

	dotenvOnce sync.Once
)

// Load populates cfg from environment variables using `env` struct tags.
// Each configuration type is parsed once per process; subsequent calls for
// the same type return the cached value. A .env file in the working directory
// is loaded into the environment on first use, if present.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	dotenvOnce.Do(func() {
		// Missing .env is the normal production case, not an error.
		_ = godotenv.Load()
	})

	t := reflect.TypeOf(*cfg)

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[t]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", t, err)
	}

	cache[t] = *cfg
	return nil
}

// MustLoad is like Load but panics on failure. Intended for application
// startup where a missing required variable should abort the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
