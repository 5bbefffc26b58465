package client

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agbru/bootload/internal/future"
	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/orchestration"
	"github.com/agbru/bootload/internal/protocol"
	"github.com/agbru/bootload/internal/ui"
	"github.com/agbru/bootload/internal/uri"
)

// Task descriptions of the standard bootstrap, in issue order.
const (
	TaskInitData  = "Receiving initialization data"
	TaskSettings  = "Applying settings"
	TaskTheme     = "Loading theme"
	TaskWorkspace = "Resolving workspace"
	TaskConnect   = "Connecting"
)

// Budgets of the standard bootstrap tasks.
const (
	initDataBudget  = 2 * time.Second
	settingsBudget  = 100 * time.Millisecond
	themeBudget     = 200 * time.Millisecond
	workspaceBudget = 100 * time.Millisecond
	connectBudget   = 5 * time.Second
)

// Settings defaults.
const (
	DefaultTheme     = "dark"
	DefaultFontSize  = 14
	DefaultWorkspace = "."
)

// Settings is the user configuration carried in the init data under
// "settings".
type Settings struct {
	Theme     string
	FontSize  int
	Workspace string
}

// Result is what a successful standard bootstrap produced.
type Result struct {
	Settings  Settings
	Theme     ui.Theme
	Workspace uri.Resource
}

// StandardConfig configures the standard variant.
type StandardConfig struct {
	// Source provides the init data. Required.
	Source protocol.Source
	// BaseURI is the root relative references resolve against. Empty means
	// the working directory.
	BaseURI string
	// Dial connects to the server. nil skips the Connecting task.
	Dial func(ctx context.Context) error
}

// Standard is the stock client variant.
type Standard struct {
	env    *Env
	source protocol.Source
	dial   func(context.Context) error
	uris   *uri.URLFactory

	mu     sync.Mutex
	result *Result
}

var _ lifecycle.Client = (*Standard)(nil)

// NewStandard returns the VariantFunc building a Standard variant.
func NewStandard(cfg StandardConfig) VariantFunc {
	return func(env *Env) (lifecycle.Client, error) {
		if cfg.Source == nil {
			return nil, errors.New("standard variant: no init data source")
		}
		base := cfg.BaseURI
		if base == "" {
			wd, err := filepath.Abs(".")
			if err != nil {
				return nil, fmt.Errorf("standard variant: %w", err)
			}
			base = "file://" + strings.TrimSuffix(filepath.ToSlash(wd), "/") + "/"
		}
		uris, err := uri.NewURLFactory(base)
		if err != nil {
			return nil, fmt.Errorf("standard variant: %w", err)
		}
		return &Standard{env: env, source: cfg.Source, dial: cfg.Dial, uris: uris}, nil
	}
}

// CreateURIFactory implements lifecycle.Client.
func (s *Standard) CreateURIFactory() uri.Factory { return s.uris }

// Initialize implements lifecycle.Client. It issues the bootstrap tasks and
// waits for all of them; the first failure in issue order is returned.
func (s *Standard) Initialize(ctx context.Context) error {
	o := s.env.Orchestrator

	data := orchestration.Spawn1(ctx, o, TaskInitData, initDataBudget,
		func(_ context.Context, d protocol.InitData) (protocol.InitData, error) { return d, nil },
		s.source.InitData())
	settings := orchestration.Spawn1(ctx, o, TaskSettings, settingsBudget, applySettings, data)
	theme := orchestration.Spawn1(ctx, o, TaskTheme, themeBudget, loadTheme, settings)
	workspace := orchestration.Spawn2(ctx, o, TaskWorkspace, workspaceBudget, resolveWorkspace,
		settings, future.Resolved[uri.Factory](s.uris))

	var connected *future.Future[struct{}]
	if s.dial != nil {
		connected = orchestration.Spawn0(ctx, o, TaskConnect, connectBudget, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.env.Reconnector.Run(ctx, s.dial)
		})
	}

	// No task outlives Initialize, even after ctx is cancelled: every task
	// stops waiting on its dependencies once ctx is done, so they all
	// settle promptly.
	bg := context.WithoutCancel(ctx)
	<-data.Done()
	st, errSettings := settings.Await(bg)
	th, errTheme := theme.Await(bg)
	ws, errWorkspace := workspace.Await(bg)
	var errConnect error
	if connected != nil {
		_, errConnect = connected.Await(bg)
	}
	if err := firstError(errSettings, errTheme, errWorkspace, errConnect); err != nil {
		return err
	}

	s.mu.Lock()
	s.result = &Result{Settings: st, Theme: th, Workspace: ws}
	s.mu.Unlock()
	return nil
}

// Result returns the bootstrap output once Initialize succeeded.
func (s *Standard) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// applySettings reads the "settings" section, filling defaults.
func applySettings(_ context.Context, data protocol.InitData) (Settings, error) {
	st := Settings{Theme: DefaultTheme, FontSize: DefaultFontSize, Workspace: DefaultWorkspace}
	sec := data.Section("settings")
	if sec == nil {
		return st, nil
	}
	if v, ok := sec["theme"]; ok {
		name, ok := v.(string)
		if !ok || name == "" {
			return Settings{}, fmt.Errorf("settings: theme must be a non-empty string, got %v", v)
		}
		st.Theme = name
	}
	if v, ok := sec["fontSize"]; ok {
		size, err := toInt(v)
		if err != nil || size <= 0 {
			return Settings{}, fmt.Errorf("settings: invalid fontSize %v", v)
		}
		st.FontSize = size
	}
	if v, ok := sec.String("workspace"); ok && v != "" {
		st.Workspace = v
	}
	return st, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%v is not a number", v)
}

func loadTheme(_ context.Context, st Settings) (ui.Theme, error) {
	theme, ok := ui.LookupTheme(st.Theme)
	if !ok {
		return ui.Theme{}, fmt.Errorf("unknown theme %q", st.Theme)
	}
	return theme, nil
}

func resolveWorkspace(_ context.Context, st Settings, f uri.Factory) (uri.Resource, error) {
	u, err := f.Parse(st.Workspace)
	if err != nil {
		return uri.Resource{}, err
	}
	return f.Create(u)
}
