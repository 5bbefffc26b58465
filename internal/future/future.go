// Package future provides a single-assignment value that settles once,
// either with a value or with an error, and can be awaited by any number
// of goroutines. It is the dependency currency of the task orchestrator:
// a task may be gated on futures produced by other tasks.
package future

import (
	"context"
	"errors"
	"sync"
)

// ErrNil is returned when awaiting a nil *Future.
var ErrNil = errors.New("future: nil future")

// Awaitable is the type-erased view of a Future. It lets callers pass
// futures of different value types as one ordered dependency list.
type Awaitable interface {
	// AwaitValue blocks until the future settles or ctx is done.
	AwaitValue(ctx context.Context) (any, error)
}

// Future holds a value of type T that becomes available at most once.
// The zero value is not usable; construct with New, Go, Resolved or Rejected.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// Verify interface compliance.
var _ Awaitable = (*Future[int])(nil)

// New returns an unsettled future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := New[T]()
	f.Resolve(v)
	return f
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f := New[T]()
	f.Reject(err)
	return f
}

// Go runs fn in a new goroutine and returns a future settled with its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		v, err := fn(ctx)
		f.settle(v, err)
	}()
	return f
}

// Resolve settles the future with v. It reports false if the future was
// already settled, in which case v is discarded.
func (f *Future[T]) Resolve(v T) bool {
	return f.settle(v, nil)
}

// Reject settles the future with err. It reports false if the future was
// already settled.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.settle(zero, err)
}

// Settle settles the future with either v or err.
func (f *Future[T]) Settle(v T, err error) bool {
	return f.settle(v, err)
}

func (f *Future[T]) settle(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
		settled = true
	})
	return settled
}

// Done returns a channel closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has a value or an error.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future settles and returns its outcome. If ctx is
// done first, the context error is returned and the future is untouched.
// Awaiting a nil future fails with ErrNil.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if f == nil {
		var zero T
		return zero, ErrNil
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitValue implements Awaitable.
func (f *Future[T]) AwaitValue(ctx context.Context) (any, error) {
	return f.Await(ctx)
}
