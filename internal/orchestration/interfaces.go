package orchestration

import "time"

// ProgressIndicator is the host element that displays bootstrap progress.
// It decouples the orchestration layer from the presentation layer; a nil
// indicator is valid and turns every update into a no-op (headless hosts).
type ProgressIndicator interface {
	// SetProgress displays the overall percentage, in [0,100].
	SetProgress(percent int)
	// MarkError switches the indicator to its persistent error appearance.
	MarkError()
}

// NullProgressIndicator is a no-op implementation of ProgressIndicator.
type NullProgressIndicator struct{}

// SetProgress does nothing.
func (NullProgressIndicator) SetProgress(int) {}

// MarkError does nothing.
func (NullProgressIndicator) MarkError() {}

// ProgressIndicatorFunc adapts a function to ProgressIndicator. The
// function receives the percentage and whether the error marker is set.
type ProgressIndicatorFunc func(percent int, errored bool)

// SetProgress calls f with errored=false.
func (f ProgressIndicatorFunc) SetProgress(percent int) { f(percent, false) }

// MarkError calls f with percent=-1 and errored=true.
func (f ProgressIndicatorFunc) MarkError() { f(-1, true) }

// TaskObserver receives task bookkeeping events, typically to export metrics.
type TaskObserver interface {
	// TaskRegistered is called once a task is appended to the pending list.
	TaskRegistered(description string, pending int)
	// TaskCompleted is called when a task succeeds (err == nil) or fails.
	// elapsed is zero when the task failed before its work started.
	TaskCompleted(description string, elapsed time.Duration, err error, pending int)
}

type nopObserver struct{}

func (nopObserver) TaskRegistered(string, int)                      {}
func (nopObserver) TaskCompleted(string, time.Duration, error, int) {}
