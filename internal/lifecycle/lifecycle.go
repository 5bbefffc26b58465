// Package lifecycle drives a client from construction to its terminal load
// state.
//
// A Controller calls the client's Initialize hook exactly once. When it
// returns, the controller makes a single transition out of Loading:
//
//	Loading -> Succeeded   hide, then remove the loading surface
//	Loading -> Failed      mark the surface, show the message, offer reload
//
// There is no way back to Loading and Initialize is never retried. A reload
// is the host's business: it builds a new client.
package lifecycle

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/bootload/internal/errors"
	"github.com/agbru/bootload/internal/logging"
	"github.com/agbru/bootload/internal/uri"
)

const instrumentationName = "github.com/agbru/bootload/internal/lifecycle"

// DefaultFadeDelay is the pause between hiding and removing the surface.
const DefaultFadeDelay = 300 * time.Millisecond

// State is the load state of a client.
type State int32

const (
	// Loading is the initial state.
	Loading State = iota
	// Succeeded is reached when Initialize returns nil.
	Succeeded
	// Failed is reached when Initialize returns an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Terminal reports whether s is Succeeded or Failed.
func (s State) Terminal() bool { return s == Succeeded || s == Failed }

// Client is implemented by each client variant.
type Client interface {
	// Initialize performs the variant's bootstrap. It is called once.
	Initialize(ctx context.Context) error
	// CreateURIFactory returns the variant's URI factory. It is called once,
	// at controller construction.
	CreateURIFactory() uri.Factory
}

// LoadObserver is notified once the load settles.
type LoadObserver interface {
	LoadSettled(state State, elapsed time.Duration)
}

// Controller is the load state machine of one client.
type Controller struct {
	client    Client
	uris      uri.Factory
	logger    logging.Logger
	surface   LoadingSurface
	observer  LoadObserver
	tracer    trace.Tracer
	fadeDelay time.Duration
	onReload  func()

	// deadline measures the whole load against its budget.
	deadline *logging.Timer
	budget   time.Duration

	started    atomic.Bool
	state      atomic.Int32
	err        error
	done       chan struct{}
	removed    chan struct{}
	reload     chan struct{}
	reloadOnce sync.Once
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSurface sets the loading surface. nil keeps the no-op surface.
func WithSurface(s LoadingSurface) Option {
	return func(c *Controller) {
		if s != nil {
			c.surface = s
		}
	}
}

// WithFadeDelay sets the pause between Hide and Remove. Zero removes at
// once.
func WithFadeDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.fadeDelay = d
		}
	}
}

// WithLoadBudget sets the budget the total load duration is logged against.
func WithLoadBudget(d time.Duration) Option {
	return func(c *Controller) { c.budget = d }
}

// WithReload registers a callback run the first time the user asks for a
// reload.
func WithReload(fn func()) Option {
	return func(c *Controller) { c.onReload = fn }
}

// WithObserver sets the load observer.
func WithObserver(obs LoadObserver) Option {
	return func(c *Controller) { c.observer = obs }
}

// WithTracer overrides the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		if t != nil {
			c.tracer = t
		}
	}
}

// NewController builds the controller for client and starts the load
// deadline timer. The client's URI factory is obtained here.
func NewController(client Client, opts ...Option) *Controller {
	c := &Controller{
		client:    client,
		logger:    logging.NewNopLogger(),
		surface:   NopSurface{},
		tracer:    otel.Tracer(instrumentationName),
		fadeDelay: DefaultFadeDelay,
		done:      make(chan struct{}),
		removed:   make(chan struct{}),
		reload:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.deadline = logging.StartTimer(c.budget)
	c.uris = client.CreateURIFactory()
	return c
}

// URIs returns the URI factory supplied by the client.
func (c *Controller) URIs() uri.Factory { return c.uris }

// Start calls Initialize in a new goroutine. It returns
// ErrAlreadyStarted on every call after the first.
func (c *Controller) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return apperrors.ErrAlreadyStarted
	}
	ctx, span := c.tracer.Start(ctx, "client.load",
		trace.WithAttributes(attribute.Int64("load.budget_ms", c.budget.Milliseconds())))
	go c.run(ctx, span)
	return nil
}

func (c *Controller) run(ctx context.Context, span trace.Span) {
	defer span.End()
	err := c.initialize(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.fail(err)
		return
	}
	c.succeed(ctx)
}

func (c *Controller) initialize(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Initialize panicked", fmt.Errorf("%v", r), logging.String("stack", string(debug.Stack())))
			err = fmt.Errorf("initialize panicked: %v", r)
		}
	}()
	return c.client.Initialize(ctx)
}

func (c *Controller) transition(to State) bool {
	return c.state.CompareAndSwap(int32(Loading), int32(to))
}

func (c *Controller) succeed(ctx context.Context) {
	if !c.transition(Succeeded) {
		return
	}
	elapsed := c.deadline.Elapsed()
	c.surface.Hide()

	fields := append([]logging.Field{logging.String("state", Succeeded.String())}, c.deadline.Fields()...)
	if c.deadline.OverBudget() {
		c.logger.Warn("Client loaded over budget", fields...)
	} else {
		c.logger.Info("Client loaded", fields...)
	}
	if c.observer != nil {
		c.observer.LoadSettled(Succeeded, elapsed)
	}
	close(c.done)

	if c.fadeDelay > 0 {
		timer := time.NewTimer(c.fadeDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}
	c.surface.Remove()
	close(c.removed)
}

func (c *Controller) fail(cause error) {
	if !c.transition(Failed) {
		return
	}
	elapsed := c.deadline.Elapsed()
	loadErr := apperrors.LoadError{Cause: cause}
	c.err = loadErr

	c.surface.MarkError()
	c.surface.ShowMessage(loadErr.Error())
	c.surface.AttachReload(c.requestReload)

	fields := append([]logging.Field{
		logging.String("state", Failed.String()),
		logging.Bool("degraded", true),
	}, c.deadline.Fields()...)
	c.logger.Error("Client load failed", cause, fields...)
	if c.observer != nil {
		c.observer.LoadSettled(Failed, elapsed)
	}
	close(c.done)
}

// requestReload is the one-shot affordance handed to the surface.
func (c *Controller) requestReload() {
	c.reloadOnce.Do(func() {
		c.logger.Info("Reload requested")
		close(c.reload)
		if c.onReload != nil {
			c.onReload()
		}
	})
}

// Done is closed once the controller left Loading.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Removed is closed once the surface was removed after a success.
func (c *Controller) Removed() <-chan struct{} { return c.removed }

// ReloadRequested is closed when the user triggers the reload affordance.
func (c *Controller) ReloadRequested() <-chan struct{} { return c.reload }

// State returns the current state.
func (c *Controller) State() State { return State(c.state.Load()) }

// Err returns the load failure, an apperrors.LoadError, once the controller
// is Failed. It is nil otherwise.
func (c *Controller) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Elapsed returns the time since construction.
func (c *Controller) Elapsed() time.Duration { return c.deadline.Elapsed() }

// Wait blocks until the load settles or ctx is done.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	select {
	case <-c.done:
		return c.State(), c.err
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}
