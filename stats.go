// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

type counts struct {
	tasksStarted     uint64
	actionsSubmitted uint64
	actionsSucceeded uint64
	actionsFailed    uint64
	maxRunning       int
}

// Stats is a point-in-time snapshot of a [Scheduler]'s state.
type Stats struct {
	Workers int // registered workers
	Ceiling int // current concurrency limit
	Running int // tasks currently running
	Queued  int // actions waiting for a worker

	// Actions taken by a worker but not yet resolved.
	InFlight int

	TasksStarted     uint64
	TasksFailed      int
	ActionsSubmitted uint64
	ActionsSucceeded uint64
	ActionsFailed    uint64

	// Highest number of tasks ever observed running at once.
	MaxRunning int

	Exhausted bool // the provider has reported exhaustion
	Finished  bool
}

// Stats returns a snapshot of the scheduler's state.
func (s *Scheduler[I, O]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Workers:          len(s.workers),
		Ceiling:          s.ceilingLocked(),
		Running:          len(s.running),
		Queued:           s.queue.Len(),
		InFlight:         len(s.inFlight),
		TasksStarted:     s.counts.tasksStarted,
		TasksFailed:      len(s.failed),
		ActionsSubmitted: s.counts.actionsSubmitted,
		ActionsSucceeded: s.counts.actionsSucceeded,
		ActionsFailed:    s.counts.actionsFailed,
		MaxRunning:       s.counts.maxRunning,
		Exhausted:        s.exhausted,
		Finished:         s.finished,
	}
}
