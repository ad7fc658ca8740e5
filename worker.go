// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"context"

	"github.com/petenewcomb/pull-go/internal/cerr"
	"go.uber.org/zap"
)

// A Worker pulls actions from a [Scheduler] and runs them. Once registered with
// [Scheduler.RegisterWorker], a worker is driven by [Pull] until the scheduler
// reports that no more work exists.
//
// RunAction may be called from a goroutine dedicated to the worker; it is never
// called concurrently for the same registration. IDs are used only for logging
// and error reporting and need not be unique.
type Worker[I, O any] interface {
	ID() string
	RunAction(ctx context.Context, input I) (O, error)
}

// ActionFunc runs a single action.
type ActionFunc[I, O any] = func(ctx context.Context, input I) (O, error)

// FuncWorker is a [Worker] built from an [ActionFunc] by [NewWorker].
type FuncWorker[I, O any] struct {
	id string
	fn ActionFunc[I, O]
}

// NewWorker returns a [Worker] with the given ID that runs actions by calling
// fn.
func NewWorker[I, O any](id string, fn ActionFunc[I, O]) *FuncWorker[I, O] {
	if fn == nil {
		panic("action function must be non-nil")
	}
	return &FuncWorker[I, O]{id: id, fn: fn}
}

func (w *FuncWorker[I, O]) ID() string {
	return w.id
}

func (w *FuncWorker[I, O]) RunAction(ctx context.Context, input I) (O, error) {
	return w.fn(ctx, input)
}

// Pull is the generic worker loop. It repeatedly calls
// [Scheduler.DistributeAction] with w until the scheduler reports that no more
// work exists, and returns nil at that point. Action failures are logged and do
// not stop the loop. A non-nil error is returned only if ctx is done while
// waiting for work.
//
// [Scheduler.RegisterWorker] runs Pull in a new goroutine; calling it directly
// is useful for driving a worker from a goroutine the caller already owns, but
// such a worker does not count toward the derived concurrency limit.
func Pull[I, O any](ctx context.Context, s *Scheduler[I, O], w Worker[I, O]) error {
	return pull(ctx, ctx, s, w)
}

func pull[I, O any](waitCtx, runCtx context.Context, s *Scheduler[I, O], w Worker[I, O]) error {
	log := s.logger.With(zap.String("worker", w.ID()))
	log.Debug("worker started")
	for {
		more, err := s.distribute(waitCtx, runCtx, w)
		if !more {
			if err != nil {
				log.Debug("worker stopped", zap.Error(err))
				return err
			}
			log.Debug("worker finished")
			return nil
		}
		if err != nil {
			log.Warn("action failed", zap.Error(err))
		}
	}
}

func runAction[I, O any](ctx context.Context, w Worker[I, O], input I) (value O, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cerr.Panic{Kind: ErrActionPanic, Value: r}
		}
	}()
	return w.RunAction(ctx, input)
}
