// Package logging provides a unified logging interface for the bootstrap client.
// It abstracts the underlying logging implementation, allowing consistent logging
// across components while supporting multiple backends. It also provides the
// Timer used to measure task, session and load durations against an advisory
// budget.
package logging
