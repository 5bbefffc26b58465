package orchestration

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/bootload/internal/future"
	"github.com/agbru/bootload/internal/logging"
)

const instrumentationName = "github.com/agbru/bootload/internal/orchestration"

// notStarted is logged in place of an elapsed time when a task failed while
// still waiting on its dependencies.
const notStarted = "not started"

// Orchestrator tracks in-flight bootstrap tasks. It owns the pending list,
// the finished counter and the session timer; nothing outside this type
// mutates them. All methods are safe for concurrent use.
type Orchestrator struct {
	logger    logging.Logger
	indicator ProgressIndicator
	observer  TaskObserver
	tracer    trace.Tracer

	// uiMu serializes indicator updates so they reach the host in the same
	// order as the state mutations that produced them.
	uiMu sync.Mutex

	mu          sync.Mutex
	pending     []string
	finished    int
	session     *logging.Timer
	sessionBase int
	errored     bool
}

// Option configures an Orchestrator during construction.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgressIndicator sets the host progress element. nil keeps updates
// as no-ops.
func WithProgressIndicator(p ProgressIndicator) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.indicator = p
		}
	}
}

// WithObserver sets the task observer (metrics).
func WithObserver(obs TaskObserver) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithTracer overrides the tracer. The default comes from the global
// OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// NewOrchestrator creates an orchestrator with an empty pending list.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:    logging.NewNopLogger(),
		indicator: NullProgressIndicator{},
		observer:  nopObserver{},
		tracer:    otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// task is the bookkeeping handle of one RunTask call.
type task struct {
	id          string
	description string
	budget      time.Duration
	ctx         context.Context
	span        trace.Span
}

// Work is the unit of work of a task. args holds the resolved values of the
// task's dependencies, in the order they were supplied.
type Work[T any] func(ctx context.Context, args []any) (T, error)

// RunTask registers a task, waits for its dependencies, runs work and
// returns its value unchanged. A failure, whether from a dependency or from
// work itself, is returned unchanged after being logged and flagged on the
// progress indicator.
//
// budget is advisory: it only decides whether completion is logged as over
// budget. It never cancels or preempts work.
func RunTask[T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work Work[T], deps ...future.Awaitable) (T, error) {
	t := o.register(ctx, description, budget)
	return execute(o, t, work, deps)
}

// Spawn registers a task immediately and runs it in a new goroutine. The
// returned future settles with the task's outcome and can be used as a
// dependency of later tasks.
func Spawn[T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work Work[T], deps ...future.Awaitable) *future.Future[T] {
	t := o.register(ctx, description, budget)
	f := future.New[T]()
	go func() {
		f.Settle(execute(o, t, work, deps))
	}()
	return f
}

func execute[T any](o *Orchestrator, t *task, work Work[T], deps []future.Awaitable) (value T, err error) {
	args, err := awaitAll(t.ctx, deps)
	if err != nil {
		o.fail(t, nil, err)
		var zero T
		return zero, err
	}

	timer := logging.StartTimer(t.budget)
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Description: t.description, Value: r, Stack: debug.Stack()}
			var zero T
			value = zero
			o.fail(t, timer, err)
		}
	}()

	value, err = work(t.ctx, args)
	if err != nil {
		o.fail(t, timer, err)
		var zero T
		return zero, err
	}
	o.succeed(t, timer)
	return value, nil
}

// awaitAll waits for every dependency concurrently and returns their
// values in supplied order. The first failure wins.
func awaitAll(ctx context.Context, deps []future.Awaitable) ([]any, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	for i, dep := range deps {
		if dep == nil {
			return nil, fmt.Errorf("dependency %d is nil", i)
		}
	}
	values := make([]any, len(deps))
	g, gctx := errgroup.WithContext(ctx)
	for i, dep := range deps {
		g.Go(func() error {
			v, err := dep.AwaitValue(gctx)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

func (o *Orchestrator) register(ctx context.Context, description string, budget time.Duration) *task {
	id := uuid.NewString()
	ctx, span := o.tracer.Start(ctx, description, trace.WithAttributes(
		attribute.String("task.id", id),
		attribute.String("task.description", description),
		attribute.Int64("task.budget_ms", budget.Milliseconds()),
	))
	t := &task{id: id, description: description, budget: budget, ctx: ctx, span: span}

	o.uiMu.Lock()
	defer o.uiMu.Unlock()

	o.mu.Lock()
	newSession := len(o.pending) == 0
	if newSession {
		o.session = logging.StartTimer(0)
		o.sessionBase = o.finished
	}
	o.pending = append(o.pending, description)
	pending := len(o.pending)
	pct := Progress(o.finished, pending)
	o.mu.Unlock()

	o.indicator.SetProgress(pct)
	o.observer.TaskRegistered(description, pending)
	o.logger.Debug("Task registered",
		logging.String("task", description),
		logging.String("task_id", id),
		logging.Int("pending", pending),
		logging.Bool("new_session", newSession),
	)
	return t
}

func (o *Orchestrator) succeed(t *task, timer *logging.Timer) {
	defer t.span.End()
	elapsed := timer.Elapsed()

	o.uiMu.Lock()
	defer o.uiMu.Unlock()

	o.mu.Lock()
	o.pending = removeFirst(o.pending, t.description)
	o.finished++
	finished := o.finished
	pending := len(o.pending)
	pct := Progress(finished, pending)
	var session *logging.Timer
	burst := 0
	if pending == 0 && o.session != nil {
		session = o.session
		burst = finished - o.sessionBase
		o.session = nil
	}
	o.mu.Unlock()

	fields := append([]logging.Field{
		logging.String("task", t.description),
		logging.String("task_id", t.id),
	}, timer.Fields()...)
	if timer.OverBudget() {
		o.logger.Warn("Task finished over budget", fields...)
	} else {
		o.logger.Info("Task finished", fields...)
	}

	o.indicator.SetProgress(pct)
	o.observer.TaskCompleted(t.description, elapsed, nil, pending)

	if session != nil {
		o.logger.Info("Bootstrap tasks settled",
			logging.Int("tasks", burst),
			logging.Int("finished_total", finished),
			logging.Duration("elapsed", session.Elapsed()),
		)
	}
}

// fail records a failed task. timer is nil when the failure happened
// during the dependency wait. The description stays in the pending list.
func (o *Orchestrator) fail(t *task, timer *logging.Timer, err error) {
	defer t.span.End()
	t.span.RecordError(err)
	t.span.SetStatus(codes.Error, err.Error())

	o.uiMu.Lock()
	defer o.uiMu.Unlock()

	o.mu.Lock()
	o.errored = true
	pending := len(o.pending)
	pct := Progress(o.finished, pending)
	o.mu.Unlock()

	fields := []logging.Field{
		logging.String("task", t.description),
		logging.String("task_id", t.id),
	}
	var elapsed time.Duration
	if timer == nil {
		fields = append(fields, logging.String("elapsed", notStarted), logging.Duration("budget", t.budget))
	} else {
		elapsed = timer.Elapsed()
		fields = append(fields, timer.Fields()...)
	}
	o.logger.Error("Task failed", err, fields...)

	o.indicator.SetProgress(pct)
	o.indicator.MarkError()
	o.observer.TaskCompleted(t.description, elapsed, err, pending)
}

// removeFirst removes the first entry equal to description.
func removeFirst(list []string, description string) []string {
	for i, d := range list {
		if d == description {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending := make([]string, len(o.pending))
	copy(pending, o.pending)
	return Snapshot{
		Pending:       pending,
		Finished:      o.finished,
		Progress:      Progress(o.finished, len(o.pending)),
		SessionActive: o.session != nil,
		Errored:       o.errored,
	}
}

// Pending returns a copy of the pending descriptions in registration order.
func (o *Orchestrator) Pending() []string {
	return o.Snapshot().Pending
}

// Finished returns the number of tasks that completed successfully.
func (o *Orchestrator) Finished() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.finished
}

// Progress returns the current completion percentage.
func (o *Orchestrator) Progress() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Progress(o.finished, len(o.pending))
}

// Errored reports whether the persistent error marker is set.
func (o *Orchestrator) Errored() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errored
}

// PanicError is the failure recorded when a task's work panics.
type PanicError struct {
	Description string
	Value       any
	Stack       []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %q panicked: %v", e.Description, e.Value)
}
