// Package retry holds the process-wide retry guard and the reconnector that
// honours it.
//
// The guard is monotone: once blocked it stays blocked for the rest of the
// process, and every later reconnect attempt is suppressed. Blocking is
// idempotent and safe to call from any goroutine, typically from the
// signal handler that tears the client down.
package retry

import (
	"errors"
	"sync/atomic"
)

// ErrBlocked is returned for reconnect attempts made after the guard was
// blocked.
var ErrBlocked = errors.New("retry: reconnect suppressed after teardown")

// Guard gates reconnect attempts. The zero value is active.
type Guard struct {
	blocked atomic.Bool
}

// Block moves the guard to the blocked state. It reports whether this call
// performed the transition; later calls have no effect and return false.
func (g *Guard) Block() bool {
	return g.blocked.CompareAndSwap(false, true)
}

// Blocked reports whether Block has been called.
func (g *Guard) Blocked() bool {
	return g.blocked.Load()
}

var process Guard

// Process returns the process-wide guard.
func Process() *Guard { return &process }

// Block blocks the process-wide guard.
func Block() bool { return process.Block() }

// Blocked reports whether the process-wide guard is blocked.
func Blocked() bool { return process.Blocked() }
