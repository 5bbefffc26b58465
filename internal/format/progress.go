package format

import (
	"strings"
	"sync"
	"time"
)

// ProgressBar renders percent (clamped to [0,100]) as a bar of width runes.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	var b strings.Builder
	b.Grow(width * 3)
	b.WriteString(strings.Repeat("█", filled))
	b.WriteString(strings.Repeat("░", width-filled))
	return b.String()
}

// ETA estimates the time left from the progress observed since it was
// created. Progress may move backwards when new tasks are issued; the
// estimate simply follows the latest reading.
type ETA struct {
	mu      sync.Mutex
	now     func() time.Time
	start   time.Time
	percent int
}

// NewETA starts an estimator at the current time.
func NewETA() *ETA {
	return newETAAt(time.Now)
}

func newETAAt(now func() time.Time) *ETA {
	return &ETA{now: now, start: now()}
}

// Observe records the latest progress percentage.
func (e *ETA) Observe(percent int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.percent = max(0, min(100, percent))
}

// Remaining returns the linear estimate of the time left, or 0 before any
// progress was made.
func (e *ETA) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.percent == 0 || e.percent == 100 {
		return 0
	}
	elapsed := e.now().Sub(e.start)
	return elapsed * time.Duration(100-e.percent) / time.Duration(e.percent)
}

// Elapsed returns the time since the estimator started.
func (e *ETA) Elapsed() time.Duration {
	return e.now().Sub(e.start)
}
