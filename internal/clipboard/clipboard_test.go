package clipboard

import (
	"sync"
	"testing"

	"github.com/atotto/clipboard"
)

func TestMemory_RoundTrip(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	if got, _ := m.ReadText(); got != "" {
		t.Errorf("new clipboard holds %q, want empty", got)
	}
	if err := m.WriteText("workspace://demo"); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.ReadText(); got != "workspace://demo" {
		t.Errorf("ReadText() = %q", got)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(2)
		go func() { defer wg.Done(); _ = m.WriteText("x") }()
		go func() { defer wg.Done(); _, _ = m.ReadText() }()
	}
	wg.Wait()
	if got, _ := m.ReadText(); got != "x" {
		t.Errorf("ReadText() = %q, want x", got)
	}
}

func TestSystem_ReportsSupport(t *testing.T) {
	t.Parallel()
	c, err := System()
	if clipboard.Unsupported {
		if err != ErrUnsupported {
			t.Errorf("System() error = %v, want ErrUnsupported", err)
		}
		if _, ok := SystemOrMemory().(*Memory); !ok {
			t.Error("SystemOrMemory should fall back to memory")
		}
		return
	}
	if err != nil || c == nil {
		t.Errorf("System() = %v, %v", c, err)
	}
}
