package tui

import "time"

// ProgressMsg carries a new progress percentage.
type ProgressMsg struct {
	Percent int
}

// ErrorMarkMsg turns the progress bar into its error state.
type ErrorMarkMsg struct{}

// HideMsg reports a successful load.
type HideMsg struct{}

// RemoveMsg ends the loading screen.
type RemoveMsg struct{}

// MessageMsg shows a failure message.
type MessageMsg struct {
	Text string
}

// ReloadAttachedMsg attaches the reload action bound to the r key.
type ReloadAttachedMsg struct {
	Reload func()
}

// TickMsg refreshes the elapsed time.
type TickMsg time.Time
