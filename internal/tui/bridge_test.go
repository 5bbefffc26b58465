package tui

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{} // program is nil
	// Should not panic
	ref.Send(ProgressMsg{Percent: 50})
}

func TestProgramRef_Send_Concurrent(t *testing.T) {
	ref := &programRef{} // nil program - Send is a no-op

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref.Send(ProgressMsg{Percent: i})
		}(i)
	}
	wg.Wait()
}

// newTestSurface runs a surface without a terminal.
func newTestSurface(t *testing.T, ctx context.Context) (*Surface, <-chan error) {
	t.Helper()
	s := NewSurface(ctx, "bootload",
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	)
	errc := make(chan error, 1)
	go func() { errc <- s.Run() }()
	return s, errc
}

func waitClosed(t *testing.T, s *Surface, errc <-chan error) {
	t.Helper()
	select {
	case <-s.Closed():
	case <-time.After(5 * time.Second):
		t.Fatal("timeout: surface did not close")
	}
	if err := <-errc; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestSurface_SuccessfulLoad(t *testing.T) {
	s, errc := newTestSurface(t, context.Background())

	s.SetProgress(50)
	s.SetProgress(100)
	s.Hide()
	s.Remove()
	waitClosed(t, s, errc)

	final := s.Final()
	if final.Phase() != PhaseLoaded {
		t.Errorf("Phase() = %v, want PhaseLoaded", final.Phase())
	}
	if final.Percent() != 100 {
		t.Errorf("Percent() = %d, want 100", final.Percent())
	}

	// Calls after exit return immediately.
	done := make(chan struct{})
	go func() {
		s.SetProgress(0)
		s.Remove()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout: host calls blocked after exit")
	}
}

func TestSurface_FailedLoadReload(t *testing.T) {
	s, errc := newTestSurface(t, context.Background())

	reloaded := make(chan struct{})
	s.MarkError()
	s.ShowMessage("Failed to load: net down.")
	s.AttachReload(func() { close(reloaded) })
	s.ref.Send(keyR)

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout: reload was not called")
	}
	waitClosed(t, s, errc)

	final := s.Final()
	if !final.Reloaded() {
		t.Error("Reloaded() = false, want true")
	}
	if got := final.Message(); got != "Failed to load: net down." {
		t.Errorf("Message() = %q", got)
	}
}

func TestSurface_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, errc := newTestSurface(t, ctx)

	s.SetProgress(10)
	cancel()
	waitClosed(t, s, errc)
}
