package orchestration

import "math"

// Progress returns the completion percentage for the given counts:
// round(100 * finished / (finished + pending)), clamped to [0,100].
// With no task ever issued the result is 0.
func Progress(finished, pending int) int {
	if finished < 0 {
		finished = 0
	}
	if pending < 0 {
		pending = 0
	}
	total := finished + pending
	if total == 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(finished) / float64(total)))
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// Snapshot is a point-in-time copy of the orchestrator state.
type Snapshot struct {
	// Pending lists in-flight task descriptions in registration order.
	Pending []string
	// Finished counts successful completions since construction.
	Finished int
	// Progress is Progress(Finished, len(Pending)).
	Progress int
	// SessionActive reports whether the session timer is set.
	SessionActive bool
	// Errored reports whether any task has failed.
	Errored bool
}
