package retry

import (
	"context"
	"errors"
	"time"

	"github.com/agbru/bootload/internal/logging"
)

// Default reconnect policy.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
)

// AttemptObserver is notified of every connect attempt that actually ran.
type AttemptObserver interface {
	ReconnectAttempt(attempt int, err error)
}

// Reconnector retries a connect function with a fixed delay, checking the
// guard before every attempt.
type Reconnector struct {
	guard    *Guard
	attempts int
	delay    time.Duration
	logger   logging.Logger
	observer AttemptObserver
}

// ReconnectorOption configures a Reconnector.
type ReconnectorOption func(*Reconnector)

// WithAttempts sets the maximum number of attempts (at least 1).
func WithAttempts(n int) ReconnectorOption {
	return func(r *Reconnector) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithDelay sets the pause between attempts.
func WithDelay(d time.Duration) ReconnectorOption {
	return func(r *Reconnector) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ReconnectorOption {
	return func(r *Reconnector) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithAttemptObserver registers an observer for attempts.
func WithAttemptObserver(obs AttemptObserver) ReconnectorOption {
	return func(r *Reconnector) { r.observer = obs }
}

// NewReconnector returns a reconnector bound to guard. A nil guard binds to
// the process-wide guard.
func NewReconnector(guard *Guard, opts ...ReconnectorOption) *Reconnector {
	if guard == nil {
		guard = Process()
	}
	r := &Reconnector{
		guard:    guard,
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run calls connect until it succeeds, the attempts are exhausted, ctx is
// done or the guard is blocked. A blocked guard yields ErrBlocked without
// calling connect again.
func (r *Reconnector) Run(ctx context.Context, connect func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if r.guard.Blocked() {
			r.logger.Debug("Reconnect suppressed", logging.Int("attempt", attempt))
			return ErrBlocked
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := connect(ctx)
		if r.observer != nil {
			r.observer.ReconnectAttempt(attempt, err)
		}
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		r.logger.Warn("Connect attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", r.attempts),
			logging.Err(err),
		)

		if attempt == r.attempts {
			break
		}
		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
