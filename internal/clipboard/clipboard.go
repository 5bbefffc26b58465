// Package clipboard exposes text clipboard access to callers of the
// client. The bootstrap core never uses it.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned by System when no clipboard utility exists.
var ErrUnsupported = errors.New("clipboard: unsupported on this system")

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

type system struct{}

func (system) ReadText() (string, error) { return clipboard.ReadAll() }

func (system) WriteText(text string) error { return clipboard.WriteAll(text) }

// System returns the OS clipboard, or ErrUnsupported when the platform has
// no usable clipboard (for example a Linux host without xclip or xsel).
func System() (Clipboard, error) {
	if clipboard.Unsupported {
		return nil, ErrUnsupported
	}
	return system{}, nil
}

// SystemOrMemory returns the OS clipboard when available and an in-memory
// one otherwise.
func SystemOrMemory() Clipboard {
	if c, err := System(); err == nil {
		return c
	}
	return NewMemory()
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory { return &Memory{} }

// ReadText returns the last written text.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// WriteText replaces the stored text.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}
