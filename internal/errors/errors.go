package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorLoad     = 3   // Indicates the bootstrap sequence failed.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ErrAlreadyStarted is returned when a one-shot lifecycle is started twice.
var ErrAlreadyStarted = errors.New("lifecycle already started")

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// LoadError is the terminal failure of a client's initialization. Its
// message is the text shown on the loading surface.
type LoadError struct {
	// Cause is the error returned by the initialization hook.
	Cause error
}

// Error returns "Failed to load: <cause>.".
func (e LoadError) Error() string {
	msg := "unknown error"
	if e.Cause != nil {
		msg = e.Cause.Error()
	}
	return "Failed to load: " + strings.TrimSuffix(msg, ".") + "."
}

// Unwrap returns the initialization error.
func (e LoadError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ColorProvider supplies the escape codes used when reporting errors.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleLoadError reports a failed bootstrap on out and maps it to an exit
// code. Cancellation (teardown) maps to ExitErrorCanceled, everything else
// to ExitErrorLoad. A nil colors disables colorization.
func HandleLoadError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}
	if IsContextError(err) {
		fmt.Fprintf(out, "%sBootstrap canceled after %s.%s\n", colors.Yellow(), duration, colors.Reset())
		return ExitErrorCanceled
	}
	var loadErr LoadError
	if !errors.As(err, &loadErr) {
		loadErr = LoadError{Cause: err}
	}
	fmt.Fprintf(out, "%s%s%s (after %s)\n", colors.Red(), loadErr.Error(), colors.Reset(), duration)
	return ExitErrorLoad
}
