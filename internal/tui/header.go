package tui

import (
	"fmt"
	"time"

	"github.com/agbru/bootload/internal/format"
)

// HeaderModel renders the top line: title and elapsed load time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	title     string
}

// NewHeaderModel creates a header whose clock starts now.
func NewHeaderModel(title string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		title:     title,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// Elapsed returns the time shown by the header.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := titleStyle.Render(h.title)
	pipe := separatorStyle.Render(" | ")
	elapsed := elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))
	return headerStyle.Render(title + pipe + elapsed)
}
