package orchestration

import (
	"context"
	"time"

	"github.com/agbru/bootload/internal/future"
)

// arg returns args[i] as A, or the zero value of A when the resolved
// dependency value is nil.
func arg[A any](args []any, i int) A {
	v, _ := args[i].(A)
	return v
}

// Run0 runs a task without dependencies.
func Run0[T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context) (T, error)) (T, error) {
	return RunTask[T](ctx, o, description, budget, func(ctx context.Context, _ []any) (T, error) {
		return work(ctx)
	})
}

// Run1 runs a task gated on one typed dependency.
func Run1[A, T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context, A) (T, error), a *future.Future[A]) (T, error) {
	return RunTask[T](ctx, o, description, budget, func(ctx context.Context, args []any) (T, error) {
		return work(ctx, arg[A](args, 0))
	}, a)
}

// Run2 runs a task gated on two typed dependencies.
func Run2[A, B, T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context, A, B) (T, error), a *future.Future[A], b *future.Future[B]) (T, error) {
	return RunTask[T](ctx, o, description, budget, func(ctx context.Context, args []any) (T, error) {
		return work(ctx, arg[A](args, 0), arg[B](args, 1))
	}, a, b)
}

// Run3 runs a task gated on three typed dependencies.
func Run3[A, B, C, T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context, A, B, C) (T, error), a *future.Future[A], b *future.Future[B], c *future.Future[C]) (T, error) {
	return RunTask[T](ctx, o, description, budget, func(ctx context.Context, args []any) (T, error) {
		return work(ctx, arg[A](args, 0), arg[B](args, 1), arg[C](args, 2))
	}, a, b, c)
}

// Spawn0 is the asynchronous form of Run0.
func Spawn0[T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context) (T, error)) *future.Future[T] {
	return Spawn[T](ctx, o, description, budget, func(ctx context.Context, _ []any) (T, error) {
		return work(ctx)
	})
}

// Spawn1 is the asynchronous form of Run1.
func Spawn1[A, T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context, A) (T, error), a *future.Future[A]) *future.Future[T] {
	return Spawn[T](ctx, o, description, budget, func(ctx context.Context, args []any) (T, error) {
		return work(ctx, arg[A](args, 0))
	}, a)
}

// Spawn2 is the asynchronous form of Run2.
func Spawn2[A, B, T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context, A, B) (T, error), a *future.Future[A], b *future.Future[B]) *future.Future[T] {
	return Spawn[T](ctx, o, description, budget, func(ctx context.Context, args []any) (T, error) {
		return work(ctx, arg[A](args, 0), arg[B](args, 1))
	}, a, b)
}

// Spawn3 is the asynchronous form of Run3.
func Spawn3[A, B, C, T any](ctx context.Context, o *Orchestrator, description string, budget time.Duration, work func(context.Context, A, B, C) (T, error), a *future.Future[A], b *future.Future[B], c *future.Future[C]) *future.Future[T] {
	return Spawn[T](ctx, o, description, budget, func(ctx context.Context, args []any) (T, error) {
		return work(ctx, arg[A](args, 0), arg[B](args, 1), arg[C](args, 2))
	}, a, b, c)
}
