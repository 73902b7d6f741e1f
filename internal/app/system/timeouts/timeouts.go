// Package timeouts provides centralized timeout values for handler operations.
//
// Handlers never block on a live session forever: every Dispatch or
// Snapshot call runs under Dispatch(). Telemetry() bounds the final metrics
// flush at shutdown.
//
// Timeouts can be configured at startup using Configure(). If not configured,
// the defaults are used.
package timeouts

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultDispatch  = 5 * time.Second
	DefaultTelemetry = 5 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	dispatch  = DefaultDispatch
	telemetry = DefaultTelemetry
)

// Dispatch returns how long a handler waits for a live session to apply an
// event or produce a snapshot.
func Dispatch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return dispatch
}

// Telemetry returns the timeout for flushing metrics at shutdown.
func Telemetry() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return telemetry
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Dispatch  time.Duration
	Telemetry time.Duration
}

// Configure sets custom timeout values. Zero values in the config are ignored,
// keeping the current (or default) values. This should be called during
// application startup before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Dispatch > 0 {
		dispatch = cfg.Dispatch
	}
	if cfg.Telemetry > 0 {
		telemetry = cfg.Telemetry
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	dispatch = DefaultDispatch
	telemetry = DefaultTelemetry
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Dispatch(), h.Log, "dashboard dispatch")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
