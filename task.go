// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"context"

	"github.com/petenewcomb/pull-go/internal/cerr"
)

// A Task is a coarse-grained unit of work started by a [Scheduler]. While it
// runs, it may submit any number of actions through the provided [Submitter],
// sequentially or concurrently, and then return. A non-nil error marks the task
// as failed; failed tasks are recorded (see [Scheduler.FailedTasks]) but never
// retried.
//
// Each task runs in its own goroutine. Run must not return before every
// [Future] it depends on has resolved if it wants those results, but it is not
// required to wait for futures it does not care about: actions keep the
// operation alive until a worker runs them.
type Task[I, O any] interface {
	Run(ctx context.Context, submitter *Submitter[I, O]) error
}

// TaskFunc adapts an ordinary function to the [Task] interface.
type TaskFunc[I, O any] func(ctx context.Context, submitter *Submitter[I, O]) error

// Run calls f(ctx, submitter).
func (f TaskFunc[I, O]) Run(ctx context.Context, submitter *Submitter[I, O]) error {
	return f(ctx, submitter)
}

// A TaskProvider supplies tasks on demand. NextTask returns the next task and
// true, or false once the supply is exhausted. After returning false it is
// never called again by the [Scheduler]. Calls are never concurrent, but they
// may come from different goroutines.
//
// A provider must never return the same task twice, and a call must have no
// side effects beyond advancing the provider's own supply.
type TaskProvider[I, O any] interface {
	NextTask(ctx context.Context) (Task[I, O], bool)
}

// ProviderFunc adapts an ordinary function to the [TaskProvider] interface.
type ProviderFunc[I, O any] func(ctx context.Context) (Task[I, O], bool)

// NextTask calls f(ctx).
func (f ProviderFunc[I, O]) NextTask(ctx context.Context) (Task[I, O], bool) {
	return f(ctx)
}

// TaskFailure records a task whose Run method returned an error or panicked.
type TaskFailure[I, O any] struct {
	// ID is the 1-based position of the task in the order it was obtained from
	// the provider.
	ID   uint64
	Task Task[I, O]
	Err  error
}

func runTask[I, O any](ctx context.Context, task Task[I, O], submitter *Submitter[I, O]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cerr.Panic{Kind: ErrTaskPanic, Value: r}
		}
	}()
	return task.Run(ctx, submitter)
}
