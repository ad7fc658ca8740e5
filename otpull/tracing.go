// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otpull

import (
	"context"

	"github.com/petenewcomb/pull-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracedTask runs each invocation of a task inside a span with the given
// operation name.
func TracedTask[I, O any](operationName string, task pull.Task[I, O]) pull.Task[I, O] {
	return pull.TaskFunc[I, O](func(ctx context.Context, sub *pull.Submitter[I, O]) error {
		tracer := otel.Tracer(instrumentationName)
		ctx, span := tracer.Start(ctx, operationName,
			trace.WithAttributes(attribute.Int64("pull.task", int64(sub.TaskID()))))
		defer span.End()

		err := task.Run(ctx, sub)
		endSpan(span, err)
		return err
	})
}

// TracedWorker runs each action inside a span with the given operation name.
//
// Actions are run with the scheduler's context rather than the submitting
// task's, so action spans are roots of their own traces unless the scheduler's
// context already carries a span.
func TracedWorker[I, O any](operationName string, worker pull.Worker[I, O]) pull.Worker[I, O] {
	return wrapWorker(worker, func(ctx context.Context, input I) (O, error) {
		tracer := otel.Tracer(instrumentationName)
		ctx, span := tracer.Start(ctx, operationName,
			trace.WithAttributes(attribute.String("pull.worker", worker.ID())))
		defer span.End()

		result, err := worker.RunAction(ctx, input)
		endSpan(span, err)
		return result, err
	})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
