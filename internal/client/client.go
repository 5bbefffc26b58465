// Package client assembles a bootstrapping client: one task orchestrator,
// one load lifecycle controller and the capabilities exposed to callers.
//
// Constructing a Client starts its load. A variant supplies the actual
// bootstrap through lifecycle.Client; Standard is the stock one.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/bootload/internal/clipboard"
	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/logging"
	"github.com/agbru/bootload/internal/orchestration"
	"github.com/agbru/bootload/internal/retry"
	"github.com/agbru/bootload/internal/uri"
)

// Env is what a variant gets to build itself.
type Env struct {
	ID           string
	Orchestrator *orchestration.Orchestrator
	Reconnector  *retry.Reconnector
	Logger       logging.Logger
}

// VariantFunc builds the variant for a new client.
type VariantFunc func(env *Env) (lifecycle.Client, error)

type options struct {
	logger          logging.Logger
	indicator       orchestration.ProgressIndicator
	surface         lifecycle.LoadingSurface
	taskObserver    orchestration.TaskObserver
	loadObserver    lifecycle.LoadObserver
	attemptObserver retry.AttemptObserver
	guard           *retry.Guard
	clipboard       clipboard.Clipboard
	fadeDelay       time.Duration
	loadBudget      time.Duration
	reconnectTries  int
	reconnectDelay  time.Duration
	onReload        func()
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the logger shared by every component of the client.
func WithLogger(l logging.Logger) Option { return func(o *options) { o.logger = l } }

// WithProgressIndicator sets the host progress element.
func WithProgressIndicator(p orchestration.ProgressIndicator) Option {
	return func(o *options) { o.indicator = p }
}

// WithSurface sets the host loading surface.
func WithSurface(s lifecycle.LoadingSurface) Option { return func(o *options) { o.surface = s } }

// WithTaskObserver sets the orchestrator's task observer.
func WithTaskObserver(obs orchestration.TaskObserver) Option {
	return func(o *options) { o.taskObserver = obs }
}

// WithLoadObserver sets the lifecycle's load observer.
func WithLoadObserver(obs lifecycle.LoadObserver) Option {
	return func(o *options) { o.loadObserver = obs }
}

// WithAttemptObserver sets the reconnector's attempt observer.
func WithAttemptObserver(obs retry.AttemptObserver) Option {
	return func(o *options) { o.attemptObserver = obs }
}

// WithGuard binds the client to guard instead of the process-wide one.
func WithGuard(g *retry.Guard) Option { return func(o *options) { o.guard = g } }

// WithClipboard sets the clipboard capability.
func WithClipboard(c clipboard.Clipboard) Option { return func(o *options) { o.clipboard = c } }

// WithFadeDelay sets the pause between hiding and removing the surface.
func WithFadeDelay(d time.Duration) Option { return func(o *options) { o.fadeDelay = d } }

// WithLoadBudget sets the budget the total load is logged against.
func WithLoadBudget(d time.Duration) Option { return func(o *options) { o.loadBudget = d } }

// WithReconnectPolicy sets the reconnector's attempts and delay.
func WithReconnectPolicy(attempts int, delay time.Duration) Option {
	return func(o *options) {
		o.reconnectTries = attempts
		o.reconnectDelay = delay
	}
}

// WithReload registers the callback run when the user asks for a reload.
func WithReload(fn func()) Option { return func(o *options) { o.onReload = fn } }

// Client is a running client instance.
type Client struct {
	id        string
	logger    logging.Logger
	orch      *orchestration.Orchestrator
	lc        *lifecycle.Controller
	guard     *retry.Guard
	clipboard clipboard.Clipboard
	variant   lifecycle.Client
}

// New builds the client, its variant and its lifecycle, then starts the
// load. It returns once the load has started; use Lifecycle().Wait to wait
// for the outcome.
func New(ctx context.Context, build VariantFunc, opts ...Option) (*Client, error) {
	o := options{
		guard:          retry.Process(),
		fadeDelay:      lifecycle.DefaultFadeDelay,
		reconnectTries: retry.DefaultAttempts,
		reconnectDelay: retry.DefaultDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}
	if o.clipboard == nil {
		o.clipboard = clipboard.NewMemory()
	}

	id := uuid.NewString()
	logger := o.logger.With(logging.String("client_id", id))

	orch := orchestration.NewOrchestrator(
		orchestration.WithLogger(logger),
		orchestration.WithProgressIndicator(o.indicator),
		orchestration.WithObserver(o.taskObserver),
	)
	reconnectOpts := []retry.ReconnectorOption{
		retry.WithAttempts(o.reconnectTries),
		retry.WithDelay(o.reconnectDelay),
		retry.WithLogger(logger),
	}
	if o.attemptObserver != nil {
		reconnectOpts = append(reconnectOpts, retry.WithAttemptObserver(o.attemptObserver))
	}
	env := &Env{
		ID:           id,
		Orchestrator: orch,
		Reconnector:  retry.NewReconnector(o.guard, reconnectOpts...),
		Logger:       logger,
	}

	variant, err := build(env)
	if err != nil {
		return nil, fmt.Errorf("build client variant: %w", err)
	}

	lcOpts := []lifecycle.Option{
		lifecycle.WithLogger(logger),
		lifecycle.WithSurface(o.surface),
		lifecycle.WithFadeDelay(o.fadeDelay),
		lifecycle.WithLoadBudget(o.loadBudget),
		lifecycle.WithReload(o.onReload),
	}
	if o.loadObserver != nil {
		lcOpts = append(lcOpts, lifecycle.WithObserver(o.loadObserver))
	}
	lc := lifecycle.NewController(variant, lcOpts...)

	c := &Client{
		id:        id,
		logger:    logger,
		orch:      orch,
		lc:        lc,
		guard:     o.guard,
		clipboard: o.clipboard,
		variant:   variant,
	}
	logger.Info("Client created")
	if err := lc.Start(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the client's correlation id.
func (c *Client) ID() string { return c.id }

// Orchestrator returns the client's task orchestrator.
func (c *Client) Orchestrator() *orchestration.Orchestrator { return c.orch }

// Lifecycle returns the client's load controller.
func (c *Client) Lifecycle() *lifecycle.Controller { return c.lc }

// URIs returns the URI factory the variant supplied.
func (c *Client) URIs() uri.Factory { return c.lc.URIs() }

// Clipboard returns the clipboard capability.
func (c *Client) Clipboard() clipboard.Clipboard { return c.clipboard }

// Logger returns the client's logger.
func (c *Client) Logger() logging.Logger { return c.logger }

// Variant returns the variant the client was built with.
func (c *Client) Variant() lifecycle.Client { return c.variant }

// Teardown handles the host's teardown notification: from now on every
// reconnect attempt is suppressed. It is safe to call more than once.
func (c *Client) Teardown() {
	if c.guard.Block() {
		c.logger.Info("Teardown: reconnects blocked")
	}
}
