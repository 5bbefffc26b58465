// Package ui holds the color themes shared by the CLI and TUI hosts. The
// active theme is process-wide: it is reset from the command line at
// startup and replaced by the user's theme once the client has loaded it.
package ui
