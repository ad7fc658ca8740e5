// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otpull

import (
	"context"
	"time"

	"github.com/petenewcomb/pull-go"
	"go.uber.org/zap"
)

// LoggedTask adds structured logging to a task. It logs the start and end of
// each run, including its duration and any error.
func LoggedTask[I, O any](operationName string, task pull.Task[I, O]) pull.Task[I, O] {
	return pull.TaskFunc[I, O](func(ctx context.Context, sub *pull.Submitter[I, O]) error {
		logger := zap.L().With(
			zap.String("operation", operationName),
			zap.String("component", "otpull"),
			zap.Uint64("task", sub.TaskID()))

		logger.Debug("Starting task")

		startTime := time.Now()
		err := task.Run(ctx, sub)
		duration := time.Since(startTime)

		if err != nil {
			logger.Error("Task failed", zap.Duration("duration", duration), zap.Error(err))
		} else {
			logger.Debug("Task completed", zap.Duration("duration", duration))
		}
		return err
	})
}

// LoggedWorker adds structured logging to a worker's actions.
func LoggedWorker[I, O any](operationName string, worker pull.Worker[I, O]) pull.Worker[I, O] {
	return wrapWorker(worker, func(ctx context.Context, input I) (O, error) {
		logger := zap.L().With(
			zap.String("operation", operationName),
			zap.String("component", "otpull"),
			zap.String("worker", worker.ID()))

		logger.Debug("Running action")

		startTime := time.Now()
		result, err := worker.RunAction(ctx, input)
		duration := time.Since(startTime)

		if err != nil {
			logger.Error("Action failed", zap.Duration("duration", duration), zap.Error(err))
		} else {
			logger.Debug("Action completed", zap.Duration("duration", duration))
		}
		return result, err
	})
}

// wrapWorker keeps the inner worker's ID while replacing how actions run.
func wrapWorker[I, O any](worker pull.Worker[I, O], run pull.ActionFunc[I, O]) pull.Worker[I, O] {
	return pull.NewWorker(worker.ID(), run)
}
