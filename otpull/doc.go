// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package otpull provides logging, metrics, and tracing wrappers for
// [pull.Task] and [pull.Worker] implementations. Logging uses the global
// [zap] logger and metrics and tracing use the global OpenTelemetry providers,
// so applications configure them once and wrap tasks and workers as needed.
//
// [RegisterSchedulerMetrics] additionally exposes a scheduler's queue depth,
// running task count, and related counters as observable gauges.
//
// Workers run actions with the scheduler's context, not the submitting task's.
// To parent action spans to task spans, submit inputs wrapped with [Propagate]
// and wrap workers with [PropagatedWorker].
package otpull
