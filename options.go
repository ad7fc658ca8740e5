// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"go.uber.org/zap"
)

// DefaultTasksPerWorker is the multiplier used to derive a scheduler's
// concurrency limit from its registered worker count when no explicit limit is
// set.
const DefaultTasksPerWorker = 3

type config struct {
	limit          int
	tasksPerWorker int
	logger         *zap.Logger
}

// An Option configures a [Scheduler].
type Option func(*config)

// WithConcurrencyLimit fixes the maximum number of tasks allowed to run at the
// same time. It panics if limit is less than one.
func WithConcurrencyLimit(limit int) Option {
	if limit < 1 {
		panic("concurrency limit must be at least one")
	}
	return func(c *config) {
		c.limit = limit
	}
}

// WithTasksPerWorker changes the multiplier used to derive the concurrency
// limit when none is set with [WithConcurrencyLimit]. The derived limit is
// n times the number of workers registered at the moment it is evaluated, so it
// grows as workers register. It panics if n is less than one.
func WithTasksPerWorker(n int) Option {
	if n < 1 {
		panic("tasks per worker must be at least one")
	}
	return func(c *config) {
		c.tasksPerWorker = n
	}
}

// WithLogger sets the logger used by the scheduler and its worker loops. The
// default discards all output.
func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		panic("logger must be non-nil")
	}
	return func(c *config) {
		c.logger = logger
	}
}
