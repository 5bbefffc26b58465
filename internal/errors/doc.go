// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// load failure, validation) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All wrapping error types implement the Unwrap() method to support errors.Is()
// and errors.As(). Task failures are never wrapped: the orchestrator hands the
// original error back to the caller unchanged.
package apperrors
