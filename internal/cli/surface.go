// Package cli implements the spinner-line host: a loading surface and a
// progress indicator rendered on a single terminal line.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/briandowns/spinner"

	"github.com/agbru/bootload/internal/format"
	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/orchestration"
	"github.com/agbru/bootload/internal/ui"
)

var (
	_ lifecycle.LoadingSurface        = (*Surface)(nil)
	_ orchestration.ProgressIndicator = (*Surface)(nil)
)

// Surface shows a spinner with a progress bar while the client loads.
// After a failure it prints the message and, once a reload is attached,
// waits for the user to press Enter.
type Surface struct {
	out   io.Writer
	in    *bufio.Reader
	theme ui.Theme

	mu      sync.Mutex
	spinner Spinner
	eta     *format.ETA
	percent int
	errored bool
	running bool

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSurface creates a surface writing to out. in may be nil, in which case
// no reload prompt is offered and the surface closes right after a failure.
// Surfaces created one after another may share in; each prompt consumes
// one line.
func NewSurface(out io.Writer, in *bufio.Reader) *Surface {
	return &Surface{
		out:     out,
		in:      in,
		theme:   ui.GetCurrentTheme(),
		spinner: newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true)),
		eta:     format.NewETA(),
		closed:  make(chan struct{}),
	}
}

// Start shows the spinner.
func (s *Surface) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.spinner.UpdateSuffix(s.suffix())
	s.spinner.Start()
}

// SetProgress implements orchestration.ProgressIndicator.
func (s *Surface) SetProgress(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.percent = percent
	s.eta.Observe(percent)
	if s.running {
		s.spinner.UpdateSuffix(s.suffix())
	}
}

// MarkError implements orchestration.ProgressIndicator and
// lifecycle.LoadingSurface. The bar stays red from then on.
func (s *Surface) MarkError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errored = true
	if s.running {
		s.spinner.UpdateSuffix(s.suffix())
	}
}

// suffix renders the text after the spinner. Callers hold mu.
func (s *Surface) suffix() string {
	color := s.theme.Primary
	status := "loading, " + format.FormatETA(s.eta.Remaining()) + " left"
	if s.errored {
		color = s.theme.Error
		status = "loading with errors"
	}
	bar := s.theme.Colorize(color, format.ProgressBar(s.percent, ProgressBarWidth))
	return fmt.Sprintf(" %s %3d%% %s", bar, s.percent, status)
}

// stop halts the spinner. Callers hold mu.
func (s *Surface) stop() {
	if s.running {
		s.spinner.Stop()
		s.running = false
	}
}

// Hide implements lifecycle.LoadingSurface.
func (s *Surface) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
	fmt.Fprintf(s.out, "%s loaded in %s\n",
		s.theme.Colorize(s.theme.Success, "✓"), format.FormatExecutionDuration(s.eta.Elapsed()))
}

// Remove implements lifecycle.LoadingSurface.
func (s *Surface) Remove() {
	s.mu.Lock()
	s.stop()
	s.mu.Unlock()
	s.close()
}

// ShowMessage implements lifecycle.LoadingSurface.
func (s *Surface) ShowMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
	fmt.Fprintf(s.out, "%s %s\n", s.theme.Colorize(s.theme.Error, "✗"), msg)
}

// AttachReload implements lifecycle.LoadingSurface. It prompts on out and
// calls reload when a line is read from in. The surface closes either way.
func (s *Surface) AttachReload(reload func()) {
	if s.in == nil {
		s.close()
		return
	}
	fmt.Fprintln(s.out, "Press Enter to reload, Ctrl+C to quit.")
	go func() {
		defer s.close()
		if _, err := s.in.ReadString('\n'); err != nil {
			return
		}
		reload()
	}()
}

func (s *Surface) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Closed is closed once the surface is done: removed after a success, or
// after the reload prompt was answered or abandoned.
func (s *Surface) Closed() <-chan struct{} { return s.closed }
