// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otpull

import (
	"context"

	"github.com/petenewcomb/pull-go"
	"go.opentelemetry.io/otel/trace"
)

// Propagated carries the submitting task's trace context along with an action
// input. Workers run actions with the scheduler's context rather than the
// task's, so without it action spans cannot be parented to the task that
// caused them.
type Propagated[I any] struct {
	// Input is the original action input.
	Input I
	// TraceContext is the span context current when the action was submitted.
	TraceContext trace.SpanContext
}

// Propagate wraps input with the span context found in ctx. Submit the result
// to a scheduler whose workers are wrapped with [PropagatedWorker].
func Propagate[I any](ctx context.Context, input I) Propagated[I] {
	return Propagated[I]{
		Input:        input,
		TraceContext: trace.SpanContextFromContext(ctx),
	}
}

// PropagatedWorker adapts worker to accept [Propagated] inputs. Each action
// runs with the propagated span context installed as its remote parent, so
// spans started by worker, for instance by [TracedWorker], join the
// submitting task's trace.
func PropagatedWorker[I, O any](worker pull.Worker[I, O]) pull.Worker[Propagated[I], O] {
	return pull.NewWorker(worker.ID(), func(ctx context.Context, wrapped Propagated[I]) (O, error) {
		if wrapped.TraceContext.IsValid() {
			ctx = trace.ContextWithRemoteSpanContext(ctx, wrapped.TraceContext)
		}
		return worker.RunAction(ctx, wrapped.Input)
	})
}
