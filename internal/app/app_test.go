package app

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/agbru/bootload/internal/config"
	apperrors "github.com/agbru/bootload/internal/errors"
	"github.com/agbru/bootload/internal/ui"
)

// lockedBuffer is a bytes.Buffer safe for concurrent writers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(t *testing.T, mode config.Mode) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Mode = mode
	cfg.FadeDelay = 0
	cfg.NoColor = true
	cfg.LogLevel = "debug"
	t.Cleanup(func() { ui.InitTheme(false) })
	return cfg
}

func writeInitData(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "init.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--version"}, true},
		{[]string{"--mode", "cli", "-V"}, true},
		{[]string{"--", "--version"}, false},
		{[]string{"--mode", "cli"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "bootload "+Version) {
		t.Errorf("PrintVersion() = %q", buf.String())
	}
}

func TestNew_ParsesFlags(t *testing.T) {
	var errBuf bytes.Buffer
	app, err := New([]string{"bootload", "--mode", "headless", "--load-budget", "5s", "--reconnect-attempts", "7"}, &errBuf)
	if err != nil {
		t.Fatalf("New() error = %v (%s)", err, errBuf.String())
	}
	if app.Config.Mode != config.ModeHeadless {
		t.Errorf("Mode = %q, want headless", app.Config.Mode)
	}
	if app.Config.LoadBudget.String() != "5s" {
		t.Errorf("LoadBudget = %v, want 5s", app.Config.LoadBudget)
	}
	if app.Config.ReconnectAttempts != 7 {
		t.Errorf("ReconnectAttempts = %d, want 7", app.Config.ReconnectAttempts)
	}
}

func TestNew_Help(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"bootload", "--help"}, &errBuf)
	if !IsHelpError(err) {
		t.Fatalf("New(--help) error = %v, want a help error", err)
	}
	if !strings.Contains(errBuf.String(), "--load-budget") {
		t.Errorf("help output does not list the flags:\n%s", errBuf.String())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"bootload", "--nope"}},
		{"invalid mode", []string{"bootload", "--mode", "gui"}},
		{"positional argument", []string{"bootload", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf bytes.Buffer
			_, err := New(tt.args, &errBuf)
			if err == nil {
				t.Fatal("New() error = nil, want an error")
			}
			if IsHelpError(err) {
				t.Errorf("New() error = %v, should not be a help error", err)
			}
		})
	}
}

func TestResolveMode(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	tests := []struct {
		in   config.Mode
		want config.Mode
	}{
		{config.ModeAuto, config.ModeHeadless},
		{config.ModeCLI, config.ModeCLI},
		{config.ModeTUI, config.ModeTUI},
		{config.ModeHeadless, config.ModeHeadless},
	}
	for _, tt := range tests {
		if got := resolveMode(tt.in, strings.NewReader(""), &out); got != tt.want {
			t.Errorf("resolveMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTCPDialer(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	if err := tcpDialer(addr)(context.Background()); err != nil {
		t.Errorf("dial open listener: %v", err)
	}
	ln.Close()
	if err := tcpDialer(addr)(context.Background()); err == nil {
		t.Error("dial closed listener: want an error")
	}
}

func TestRun_HeadlessSuccess(t *testing.T) {
	cfg := testConfig(t, config.ModeHeadless)
	cfg.InitData = writeInitData(t, "settings:\n  theme: light\n  workspace: projects/demo\n")
	cfg.BaseURI = "https://example.com/app/"
	cfg.MetricsAddr = "127.0.0.1:0"

	var out, errOut lockedBuffer
	app := &Application{Config: cfg, ErrWriter: &errOut}
	code := app.Run(context.Background(), &out)

	if code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d\nstderr:\n%s", code, apperrors.ExitSuccess, errOut.String())
	}
	got := out.String()
	for _, want := range []string{"Loaded in", "theme light", "https://example.com/app/projects/demo"} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(errOut.String(), "Client loaded") {
		t.Errorf("log missing the load line:\n%s", errOut.String())
	}
}

func TestRun_HeadlessFailure(t *testing.T) {
	cfg := testConfig(t, config.ModeHeadless)
	cfg.InitData = filepath.Join(t.TempDir(), "missing.yaml")

	var out, errOut lockedBuffer
	app := &Application{Config: cfg, ErrWriter: &errOut}
	code := app.Run(context.Background(), &out)

	if code != apperrors.ExitErrorLoad {
		t.Fatalf("Run() = %d, want %d", code, apperrors.ExitErrorLoad)
	}
	if !strings.Contains(errOut.String(), "Failed to load:") {
		t.Errorf("stderr missing the failure message:\n%s", errOut.String())
	}
}

func TestRun_CLIReloadsOnEnter(t *testing.T) {
	cfg := testConfig(t, config.ModeCLI)
	cfg.InitData = filepath.Join(t.TempDir(), "missing.yaml")

	// Two lines: the first two failures reload, the third finds EOF and exits.
	var out, errOut lockedBuffer
	app := &Application{Config: cfg, ErrWriter: &errOut, In: strings.NewReader("\n\n")}
	code := app.Run(context.Background(), &out)

	if code != apperrors.ExitErrorLoad {
		t.Fatalf("Run() = %d, want %d", code, apperrors.ExitErrorLoad)
	}
	if n := strings.Count(out.String(), "Press Enter to reload"); n != 3 {
		t.Errorf("reload prompt shown %d times, want 3:\n%s", n, out.String())
	}
	if n := strings.Count(errOut.String(), "Reloading client"); n != 2 {
		t.Errorf("logged %d reloads, want 2:\n%s", n, errOut.String())
	}
}

func TestRun_InvalidBaseURI(t *testing.T) {
	cfg := testConfig(t, config.ModeHeadless)
	cfg.BaseURI = "relative/path"

	var out, errOut lockedBuffer
	app := &Application{Config: cfg, ErrWriter: &errOut}
	if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorGeneric {
		t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
}
