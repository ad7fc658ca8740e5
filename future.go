// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"context"
)

// A Future is the handle returned by [Submitter.Submit]. It resolves exactly
// once, when a worker has run the submitted action: with the worker's result on
// success, or with an [*ActionError] on failure.
type Future[O any] struct {
	seq   uint64
	done  chan struct{}
	value O
	err   error
}

func newFuture[O any](seq uint64) *Future[O] {
	return &Future[O]{
		seq:  seq,
		done: make(chan struct{}),
	}
}

// Seq returns the submission sequence number of the action. Sequence numbers
// start at one and reflect the global FIFO order in which actions are handed
// to workers.
func (f *Future[O]) Seq() uint64 {
	return f.seq
}

// Done returns a channel that is closed once the future has resolved.
func (f *Future[O]) Done() <-chan struct{} {
	return f.done
}

// Result returns the resolved value and error. It panics if the future has not
// yet resolved; use [Future.Wait] or [Future.Done] to wait for resolution.
func (f *Future[O]) Result() (O, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		panic("future not yet resolved")
	}
}

// Wait blocks until the future resolves or ctx is done. Abandoning the wait does
// not withdraw the action; it will still be run by a worker.
func (f *Future[O]) Wait(ctx context.Context) (O, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero O
		return zero, ctx.Err()
	}
}

func (f *Future[O]) resolve(value O, err error) {
	f.value = value
	f.err = err
	close(f.done)
}
