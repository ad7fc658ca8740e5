// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"context"
	"slices"
	"sync"
)

// SliceProvider is a [TaskProvider] over an ordered list of pre-built tasks.
// Each call to NextTask removes and returns the first remaining task. Once the
// list is empty, NextTask reports exhaustion forever after.
//
// SliceProvider is safe for concurrent use, so more tasks may be appended with
// [SliceProvider.Push] while a scheduler is draining it, as long as they are
// pushed before the scheduler observes exhaustion.
type SliceProvider[I, O any] struct {
	mu        sync.Mutex
	tasks     []Task[I, O]
	exhausted bool
}

// NewSliceProvider returns a [SliceProvider] that yields the given tasks in
// order.
func NewSliceProvider[I, O any](tasks ...Task[I, O]) *SliceProvider[I, O] {
	for _, task := range tasks {
		if task == nil {
			panic("task must be non-nil")
		}
	}
	return &SliceProvider[I, O]{tasks: slices.Clone(tasks)}
}

// NextTask implements [TaskProvider].
func (p *SliceProvider[I, O]) NextTask(context.Context) (Task[I, O], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tasks) == 0 {
		p.exhausted = true
		return nil, false
	}
	task := p.tasks[0]
	p.tasks[0] = nil
	p.tasks = p.tasks[1:]
	return task, true
}

// Push appends tasks to the end of the list. It panics if the provider has
// already reported exhaustion, since a scheduler would never see them.
func (p *SliceProvider[I, O]) Push(tasks ...Task[I, O]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exhausted {
		panic("provider already exhausted")
	}
	for _, task := range tasks {
		if task == nil {
			panic("task must be non-nil")
		}
	}
	p.tasks = append(p.tasks, tasks...)
}

// Len returns the number of tasks not yet returned.
func (p *SliceProvider[I, O]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}
