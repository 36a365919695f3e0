// Package timeouts provides centralized timeout values for backend calls
// made while serving dashboard requests.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing  = 2 * time.Second
	DefaultShort = 5 * time.Second
	DefaultSeed  = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping  = DefaultPing
	short = DefaultShort
	seed  = DefaultSeed
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for a single outcome record read.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Seed returns the timeout for startup seeding.
func Seed() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return seed
}

// Config holds timeout configuration values. Zero fields keep the current value.
type Config struct {
	Ping  time.Duration
	Short time.Duration
	Seed  time.Duration
}

// Configure sets custom timeout values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Seed > 0 {
		seed = cfg.Seed
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	seed = DefaultSeed
}

// WithTimeout creates a context with timeout and logs if the deadline was hit.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
