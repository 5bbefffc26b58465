package logging

import "time"

// Timer measures elapsed time against an advisory budget. The budget is
// only ever compared when logging; it never cancels anything.
type Timer struct {
	start  time.Time
	budget time.Duration
	now    func() time.Time
}

// StartTimer starts a timer with the given budget. A budget <= 0 means
// "no budget": OverBudget always reports false.
func StartTimer(budget time.Duration) *Timer {
	return startTimerAt(time.Now, budget)
}

func startTimerAt(now func() time.Time, budget time.Duration) *Timer {
	return &Timer{start: now(), budget: budget, now: now}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Budget returns the advisory budget.
func (t *Timer) Budget() time.Duration {
	return t.budget
}

// Started returns the start instant.
func (t *Timer) Started() time.Time {
	return t.start
}

// OverBudget reports whether the elapsed time exceeds the budget.
func (t *Timer) OverBudget() bool {
	return t.budget > 0 && t.Elapsed() > t.budget
}

// Fields returns the elapsed/budget pair for a log entry.
func (t *Timer) Fields() []Field {
	return []Field{
		Duration("elapsed", t.Elapsed()),
		Duration("budget", t.budget),
	}
}
