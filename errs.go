// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"fmt"

	"github.com/petenewcomb/pull-go/internal/cerr"
)

// ErrTaskPanic is wrapped by the failure recorded for a task whose Run method
// panicked.
const ErrTaskPanic = cerr.Error("task panicked")

// ErrActionPanic is wrapped by the [ActionError] reported for an action whose
// worker panicked while running it.
const ErrActionPanic = cerr.Error("action panicked")

// ErrFinished is reported by a [Future] for an action submitted after its
// [Scheduler] had already finished. It can only be observed when a task leaks
// its [Submitter] beyond the end of its Run method.
const ErrFinished = cerr.Error("scheduler finished")

// ActionError describes the failure of a single action. It is returned both to
// the task that submitted the action (through its [Future]) and to the worker
// loop that ran it (from [Scheduler.DistributeAction]).
type ActionError struct {
	// Seq is the submission sequence number of the failed action.
	Seq uint64
	// WorkerID identifies the worker that ran the action.
	WorkerID string
	// Err is the error returned by the worker.
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %d failed on worker %q: %v", e.Seq, e.WorkerID, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
