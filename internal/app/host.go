package app

import (
	"bufio"
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/agbru/bootload/internal/cli"
	"github.com/agbru/bootload/internal/client"
	"github.com/agbru/bootload/internal/clipboard"
	"github.com/agbru/bootload/internal/config"
	"github.com/agbru/bootload/internal/logging"
	"github.com/agbru/bootload/internal/tui"
)

// host is the page the client is loaded into: its loading surface, its
// progress element and the signal that the user is done with it. A
// headless host has none of these and a nil closed channel.
type host struct {
	mode   config.Mode
	opts   []client.Option
	closed <-chan struct{}
	// release tears the host down; it returns once the terminal is restored.
	release func()
	// interactive hosts can offer a reload after a failed load.
	interactive bool
}

// resolveMode turns auto into a concrete mode: the loading screen when
// both ends are terminals, headless otherwise.
func resolveMode(mode config.Mode, in io.Reader, out io.Writer) config.Mode {
	if mode != config.ModeAuto {
		return mode
	}
	if isTerminal(in) && isTerminal(out) {
		return config.ModeTUI
	}
	return config.ModeHeadless
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// newHost builds and shows the host for one client instance. The loading
// screen reads keys from in directly; the CLI reload prompt reads lines
// from prompt, which outlives the host.
func newHost(ctx context.Context, mode config.Mode, in io.Reader, prompt *bufio.Reader, out io.Writer,
	logger logging.Logger) *host {
	switch mode {
	case config.ModeCLI:
		s := cli.NewSurface(out, prompt)
		s.Start()
		return &host{
			mode:        mode,
			opts:        []client.Option{client.WithSurface(s), client.WithProgressIndicator(s), client.WithClipboard(clipboard.SystemOrMemory())},
			closed:      s.Closed(),
			release:     s.Remove,
			interactive: prompt != nil,
		}

	case config.ModeTUI:
		programOpts := []tea.ProgramOption{tea.WithOutput(out)}
		if in != nil {
			programOpts = append(programOpts, tea.WithInput(in))
		}
		ctx, cancel := context.WithCancel(ctx)
		s := tui.NewSurface(ctx, "bootload", programOpts...)
		go func() {
			if err := s.Run(); err != nil {
				logger.Error("Loading screen failed", err)
			}
		}()
		return &host{
			mode:   mode,
			opts:   []client.Option{client.WithSurface(s), client.WithProgressIndicator(s), client.WithClipboard(clipboard.SystemOrMemory())},
			closed: s.Closed(),
			release: func() {
				cancel()
				<-s.Closed()
			},
			interactive: true,
		}

	default:
		return &host{
			mode:    config.ModeHeadless,
			opts:    []client.Option{client.WithClipboard(clipboard.NewMemory())},
			release: func() {},
		}
	}
}

// stdin returns os.Stdin when it is a terminal, nil otherwise.
func stdin() io.Reader {
	if isTerminal(os.Stdin) {
		return os.Stdin
	}
	return nil
}
