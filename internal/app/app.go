// Package app wires configuration, logging, metrics and the host to the
// standard client and runs its load to an exit code.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os/signal"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agbru/bootload/internal/client"
	"github.com/agbru/bootload/internal/config"
	apperrors "github.com/agbru/bootload/internal/errors"
	"github.com/agbru/bootload/internal/format"
	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/logging"
	"github.com/agbru/bootload/internal/metrics"
	"github.com/agbru/bootload/internal/protocol"
	"github.com/agbru/bootload/internal/server"
	"github.com/agbru/bootload/internal/ui"
)

// Application represents the bootload application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In feeds the reload prompt. nil disables interactive reloads in CLI
	// mode.
	In io.Reader

	// prompt buffers In across every reload prompt of a run.
	prompt *bufio.Reader
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name. When --help was requested the help text is
// written to errWriter and the returned error satisfies IsHelpError.
func New(args []string, errWriter io.Writer) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: stdin()}

	programName := "bootload"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	parsed := false
	cmd := newRootCommand(programName, func(fs *pflag.FlagSet) error {
		cfg, err := config.Load(fs)
		if err != nil {
			return err
		}
		app.Config = cfg
		parsed = true
		return nil
	})
	cmd.SetArgs(cmdArgs)
	cmd.SetOut(errWriter)
	cmd.SetErr(errWriter)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	if !parsed {
		return nil, pflag.ErrHelp
	}
	return app, nil
}

func newRootCommand(name string, load func(*pflag.FlagSet) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: "Bootstrap a client behind a loading surface",
		Long: `bootload runs a client's bootstrap tasks behind a loading surface that
tracks their progress, then hides the surface on success or shows the
failure with a reload affordance.

Every flag can also be set through a BOOTLOAD_* environment variable
(e.g. BOOTLOAD_LOAD_BUDGET=5s) or a YAML file given with --config.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return load(cmd.Flags())
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, pflag.ErrHelp)
}

// Run loads the client and returns the process exit code. A failed load
// with a reload affordance starts over with a fresh client when the user
// asks for it.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)

	mode := resolveMode(a.Config.Mode, a.In, out)
	if a.In != nil && a.prompt == nil {
		a.prompt = bufio.NewReader(a.In)
	}
	logWriter := a.ErrWriter
	if mode == config.ModeTUI && isTerminal(a.ErrWriter) {
		// The loading screen owns the terminal.
		logWriter = io.Discard
	}
	logger := logging.NewLogger(logWriter, "bootload")
	recorder := metrics.NewRecorder()

	ctx, stopSignals := signal.NotifyContext(ctx, teardownSignals...)
	defer stopSignals()

	var current atomic.Pointer[client.Client]
	if a.Config.MetricsAddr != "" {
		srv := server.New(a.Config.MetricsAddr, recorder, func() lifecycle.State {
			if c := current.Load(); c != nil {
				return c.Lifecycle().State()
			}
			return lifecycle.Loading
		}, server.WithLogger(logger))
		if err := srv.Start(); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error starting metrics server: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Error("Metrics server shutdown failed", err)
			}
		}()
	}

	logger.Debug("Starting", logging.String("mode", string(mode)), logging.String("version", Version))
	for {
		code, reload := a.load(ctx, out, mode, logger, recorder, &current)
		if !reload {
			return code
		}
		recorder.ResetLoad()
		logger.Info("Reloading client")
	}
}

// load runs one client instance. It reports the exit code, or reload=true
// when the user asked for a fresh client after a failure.
func (a *Application) load(ctx context.Context, out io.Writer, mode config.Mode, logger logging.Logger,
	recorder *metrics.Recorder, current *atomic.Pointer[client.Client]) (code int, reload bool) {
	h := newHost(ctx, mode, a.In, a.prompt, out, logger)
	defer h.release()

	opts := append([]client.Option{
		client.WithLogger(logger),
		client.WithTaskObserver(recorder),
		client.WithLoadObserver(recorder),
		client.WithAttemptObserver(recorder),
		client.WithFadeDelay(a.Config.FadeDelay),
		client.WithLoadBudget(a.Config.LoadBudget),
		client.WithReconnectPolicy(a.Config.ReconnectAttempts, a.Config.ReconnectDelay),
	}, h.opts...)

	c, err := client.New(ctx, client.NewStandard(a.standardConfig(ctx)), opts...)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric, false
	}
	current.Store(c)
	stopTeardown := context.AfterFunc(ctx, c.Teardown)
	defer stopTeardown()

	lc := c.Lifecycle()
	colors := ui.GetCurrentTheme().Colors()
	select {
	case <-lc.Done():
	case <-h.closed:
		c.Teardown()
		fmt.Fprintln(a.ErrWriter, "Load abandoned.")
		return apperrors.ExitErrorCanceled, false
	case <-ctx.Done():
		return apperrors.HandleLoadError(ctx.Err(), lc.Elapsed(), a.ErrWriter, colors), false
	}
	logger.Debug("Memory after load", metrics.NewMemoryCollector().Snapshot().Fields()...)

	if lc.State() == lifecycle.Succeeded {
		a.reportSuccess(out, c, h.mode)
		if h.closed != nil {
			select {
			case <-h.closed:
			case <-ctx.Done():
			}
		}
		return apperrors.ExitSuccess, false
	}

	if h.interactive {
		select {
		case <-lc.ReloadRequested():
			return apperrors.ExitSuccess, true
		case <-h.closed:
			select {
			case <-lc.ReloadRequested():
				return apperrors.ExitSuccess, true
			default:
			}
		case <-ctx.Done():
			return apperrors.HandleLoadError(ctx.Err(), lc.Elapsed(), a.ErrWriter, colors), false
		}
	}
	return apperrors.HandleLoadError(lc.Err(), lc.Elapsed(), a.ErrWriter, colors), false
}

func (a *Application) standardConfig(ctx context.Context) client.StandardConfig {
	cfg := client.StandardConfig{
		Source:  protocol.Static(protocol.InitData{}),
		BaseURI: a.Config.BaseURI,
	}
	if a.Config.InitData != "" {
		cfg.Source = protocol.FileSource(ctx, a.Config.InitData)
	}
	if a.Config.Server != "" {
		cfg.Dial = tcpDialer(a.Config.Server)
	}
	return cfg
}

// tcpDialer checks that addr accepts TCP connections.
func tcpDialer(addr string) func(context.Context) error {
	return func(ctx context.Context) error {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// reportSuccess applies the loaded theme and, without a surface to show
// it, prints a summary line.
func (a *Application) reportSuccess(out io.Writer, c *client.Client, mode config.Mode) {
	std, ok := c.Variant().(*client.Standard)
	if !ok {
		return
	}
	res, ok := std.Result()
	if !ok {
		return
	}
	ui.SetCurrentTheme(res.Theme)
	if mode == config.ModeHeadless {
		fmt.Fprintf(out, "Loaded in %s (theme %s, workspace %s)\n",
			format.FormatExecutionDuration(c.Lifecycle().Elapsed()), res.Theme.Name, res.Workspace.String())
	}
}
