// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package pull provides a pull-based work distribution engine. A [Scheduler]
// lazily obtains tasks from a [TaskProvider], runs a bounded number of them at
// a time, and hands the fine-grained actions they submit to whichever
// [Worker] asks for work next.
//
// Tasks decide what to do; workers decide how to do it. A task receives a
// [Submitter] and may submit any number of actions, sequentially or
// concurrently, each returning a [Future] for its result. Workers, once
// registered with [Scheduler.RegisterWorker], run a generic [Pull] loop that
// takes actions from the head of a single queue shared by all tasks, so
// actions are served in the exact order they were submitted.
//
// The number of tasks running at once is bounded by a concurrency limit, either
// fixed with [WithConcurrencyLimit] or derived as [DefaultTasksPerWorker] times
// the number of registered workers. A derived limit is recomputed each time it
// is needed, so it grows as workers register. Tasks beyond the limit are simply
// not obtained from the provider until a running task finishes.
//
// The scheduler finishes exactly once, after the provider has reported
// exhaustion, every task has returned, and every action has been handed to a
// worker. Failed tasks are recorded for inspection with
// [Scheduler.FailedTasks] and are never retried. A failed action resolves its
// future with an [*ActionError] so that the submitting task can observe it.
// There is no cancellation beyond what tasks and workers do with the context
// passed to [NewScheduler]: the only way for a scheduler to finish is for its
// supply to run dry and its work to drain.
package pull
