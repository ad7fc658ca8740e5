// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"context"
)

// A Submitter is the capability a running [Task] uses to hand actions to
// workers. It is safe for concurrent use.
type Submitter[I, O any] struct {
	s      *Scheduler[I, O]
	taskID uint64
}

// Submit appends an action with the given input to the tail of the scheduler's
// queue and returns a [Future] for its result. It never blocks.
func (sub *Submitter[I, O]) Submit(input I) *Future[O] {
	return sub.s.submit(sub.taskID, input)
}

// Perform submits an action and waits for its result. If ctx is done first,
// Perform returns ctx.Err() but the action remains queued.
func (sub *Submitter[I, O]) Perform(ctx context.Context, input I) (O, error) {
	return sub.Submit(input).Wait(ctx)
}

// TaskID returns the ID of the task this submitter belongs to. See
// [TaskFailure.ID].
func (sub *Submitter[I, O]) TaskID() uint64 {
	return sub.taskID
}
