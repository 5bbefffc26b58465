// Package tui implements the interactive loading screen host with
// bubbletea.
package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so host calls can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
// Without a program the message is dropped.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

var (
	_ lifecycle.LoadingSurface        = (*Surface)(nil)
	_ orchestration.ProgressIndicator = (*Surface)(nil)
)

// Surface forwards loading surface and progress indicator calls to the
// loading screen as messages.
type Surface struct {
	ref     *programRef
	program *tea.Program

	mu    sync.Mutex
	final Model
	err   error

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSurface builds the loading screen program. Run must be called for
// the screen to appear: host calls block until the program is running and
// return immediately once it has exited.
func NewSurface(ctx context.Context, title string, opts ...tea.ProgramOption) *Surface {
	initStyles()

	s := &Surface{
		ref:    &programRef{},
		final:  NewModel(title),
		closed: make(chan struct{}),
	}
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	s.program = tea.NewProgram(s.final, opts...)
	s.ref.SetProgram(s.program)
	return s
}

// Run shows the loading screen and blocks until it exits. Closed is
// closed when Run returns. Cancellation of the surface's context is not
// reported as an error.
func (s *Surface) Run() error {
	defer s.close()

	final, err := s.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := final.(Model); ok {
		s.final = m
	}
	s.err = err
	return err
}

// Final returns the model as it was when the screen exited.
func (s *Surface) Final() Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final
}

// SetProgress implements orchestration.ProgressIndicator.
func (s *Surface) SetProgress(percent int) {
	s.ref.Send(ProgressMsg{Percent: percent})
}

// MarkError implements orchestration.ProgressIndicator and
// lifecycle.LoadingSurface.
func (s *Surface) MarkError() {
	s.ref.Send(ErrorMarkMsg{})
}

// Hide implements lifecycle.LoadingSurface.
func (s *Surface) Hide() {
	s.ref.Send(HideMsg{})
}

// Remove implements lifecycle.LoadingSurface.
func (s *Surface) Remove() {
	s.ref.Send(RemoveMsg{})
}

// ShowMessage implements lifecycle.LoadingSurface.
func (s *Surface) ShowMessage(msg string) {
	s.ref.Send(MessageMsg{Text: msg})
}

// AttachReload implements lifecycle.LoadingSurface.
func (s *Surface) AttachReload(reload func()) {
	s.ref.Send(ReloadAttachedMsg{Reload: reload})
}

// Closed is closed once the loading screen has exited.
func (s *Surface) Closed() <-chan struct{} { return s.closed }

func (s *Surface) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}
