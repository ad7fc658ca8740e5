// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otpull

import (
	"github.com/petenewcomb/pull-go"
)

// InstrumentedTask combines tracing, metrics, and logging for a task into a
// single wrapper.
func InstrumentedTask[I, O any](operationName string, task pull.Task[I, O]) pull.Task[I, O] {
	// Apply wrappers inside-out so that the span covers the logging and
	// metrics work as well.
	return TracedTask(operationName, MetricsTask(operationName, LoggedTask(operationName, task)))
}

// InstrumentedWorker combines tracing, metrics, and logging for a worker into a
// single wrapper.
func InstrumentedWorker[I, O any](operationName string, worker pull.Worker[I, O]) pull.Worker[I, O] {
	return TracedWorker(operationName, MetricsWorker(operationName, LoggedWorker(operationName, worker)))
}
