// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull

import (
	"context"
	"slices"
	"sync"

	"github.com/gammazero/deque"
	"github.com/petenewcomb/pull-go/internal/gate"
	"go.uber.org/zap"
)

// Scheduler coordinates a set of pulling workers with a lazily consumed supply
// of tasks. Tasks are obtained from a [TaskProvider] only when a worker asks for
// work, the action queue is empty, and fewer tasks are running than the
// concurrency limit allows. Actions submitted by running tasks are handed to
// workers in strict FIFO order across all tasks.
//
// The scheduler finishes exactly once, when the provider is exhausted, no tasks
// are running, and no actions are queued. See [Scheduler.Done] and
// [Scheduler.WaitUntilFinished]. A scheduler with no registered workers never
// starts a task and therefore never finishes.
//
// A Scheduler must be created with [NewScheduler]. All of its methods are safe
// for concurrent use.
type Scheduler[I, O any] struct {
	ctx      context.Context
	provider TaskProvider[I, O]
	logger   *zap.Logger
	cfg      config

	// Woken whenever the queue, the running set, or the supply state changes.
	gate gate.Gate
	done chan struct{}

	mu        sync.Mutex
	workers   []Worker[I, O]
	queue     deque.Deque[*pending[I, O]]
	inFlight  map[uint64]*pending[I, O]
	running   map[uint64]Task[I, O]
	failed    []TaskFailure[I, O]
	supplying bool
	exhausted bool
	finished  bool
	lastSeq   uint64
	lastTask  uint64
	counts    counts
}

type pending[I, O any] struct {
	seq    uint64
	taskID uint64
	input  I
	future *Future[O]
}

// NewScheduler creates a scheduler that draws tasks from provider. The given
// context is passed to the provider, to every task, and to the actions run by
// workers registered with [Scheduler.RegisterWorker]. Canceling it does not
// stop the scheduler; tasks and workers are expected to observe it and fail,
// after which the scheduler drains normally.
func NewScheduler[I, O any](
	ctx context.Context,
	provider TaskProvider[I, O],
	opts ...Option,
) *Scheduler[I, O] {
	if provider == nil {
		panic("task provider must be non-nil")
	}
	cfg := config{
		tasksPerWorker: DefaultTasksPerWorker,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Scheduler[I, O]{
		ctx:      ctx,
		provider: provider,
		logger:   cfg.logger,
		cfg:      cfg,
		done:     make(chan struct{}),
		inFlight: make(map[uint64]*pending[I, O]),
		running:  make(map[uint64]Task[I, O]),
	}
}

// RegisterWorker adds a worker and immediately starts its [Pull] loop in a new
// goroutine. If the concurrency limit is derived from the worker count, adding
// a worker raises it. Registering after the scheduler has finished is
// harmless: the worker's loop observes completion and exits.
func (s *Scheduler[I, O]) RegisterWorker(w Worker[I, O]) {
	if w == nil {
		panic("worker must be non-nil")
	}
	s.mu.Lock()
	s.workers = append(s.workers, w)
	ceiling := s.ceilingLocked()
	s.mu.Unlock()

	s.logger.Debug("worker registered", zap.String("worker", w.ID()), zap.Int("ceiling", ceiling))

	// A larger ceiling may let a waiting worker start a task.
	s.gate.NotifyAll()

	// Waiting ignores cancellation so that the scheduler can still drain once
	// tasks observe it; actions still see the scheduler's context.
	go func() {
		_ = pull(context.WithoutCancel(s.ctx), s.ctx, s, w)
	}()
}

// Done returns a channel that is closed when the scheduler finishes.
func (s *Scheduler[I, O]) Done() <-chan struct{} {
	return s.done
}

// WaitUntilFinished blocks until the scheduler finishes or ctx is done. It
// returns ctx.Err() in the latter case; abandoning the wait has no effect on the
// scheduler. Any number of callers may wait.
func (s *Scheduler[I, O]) WaitUntilFinished(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FailedTasks returns the tasks that have failed so far, in the order they
// failed.
func (s *Scheduler[I, O]) FailedTasks() []TaskFailure[I, O] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.failed)
}

// DistributeAction takes the next action for w, waiting if none is queued but
// more may arrive, and runs it with w. It returns more == false only once the
// scheduler has finished (or ctx is done while waiting, in which case err is
// ctx.Err()). Otherwise err is the [*ActionError] for a failed action, which has
// also been delivered to the submitting task's [Future].
func (s *Scheduler[I, O]) DistributeAction(ctx context.Context, w Worker[I, O]) (more bool, err error) {
	return s.distribute(ctx, ctx, w)
}

// distribute waits for an action using waitCtx and runs it with runCtx.
func (s *Scheduler[I, O]) distribute(waitCtx, runCtx context.Context, w Worker[I, O]) (bool, error) {
	p, ok, err := s.nextAction(waitCtx)
	if !ok {
		return false, err
	}

	log := s.logger.With(zap.String("worker", w.ID()), zap.Uint64("seq", p.seq))
	log.Debug("running action", zap.Uint64("task", p.taskID))

	value, err := runAction(runCtx, w, p.input)
	if err != nil {
		err = &ActionError{Seq: p.seq, WorkerID: w.ID(), Err: err}
	}
	s.resolve(p, value, err)
	return true, err
}

// nextAction implements the pull side of the protocol: top up the running set
// from the provider if the queue is empty, then take the queue head, waiting on
// the gate while anything that could still produce an action is outstanding.
func (s *Scheduler[I, O]) nextAction(ctx context.Context) (*pending[I, O], bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		s.topUpLocked()

		if s.queue.Len() > 0 {
			p := s.queue.PopFront()
			s.inFlight[p.seq] = p
			return p, true, nil
		}

		if s.exhausted && !s.supplying && len(s.running) == 0 {
			s.finishLocked()
			return nil, false, nil
		}

		// Either tasks are running and may submit more actions, a supply call
		// is in progress, or the ceiling is currently zero. Register for the
		// next notification before releasing the lock.
		ch := s.gate.Wait()
		s.mu.Unlock()
		select {
		case <-ch:
			s.mu.Lock()
		case <-ctx.Done():
			s.mu.Lock()
			return nil, false, ctx.Err()
		}
	}
}

// topUpLocked starts tasks while the queue is empty, the supply is not
// exhausted, and the running set is below the ceiling. Provider calls are made
// without holding the lock and are serialized by the supplying flag.
func (s *Scheduler[I, O]) topUpLocked() {
	for s.queue.Len() == 0 && !s.exhausted && !s.supplying && len(s.running) < s.ceilingLocked() {
		s.supplying = true
		s.mu.Unlock()
		task, ok := s.provider.NextTask(s.ctx)
		s.mu.Lock()
		s.supplying = false

		if !ok {
			s.exhausted = true
			s.logger.Debug("task supply exhausted", zap.Uint64("tasks", s.lastTask))
			s.gate.NotifyAll()
			return
		}
		if task == nil {
			panic("task provider returned a nil task")
		}
		s.startLocked(task)
	}
}

func (s *Scheduler[I, O]) startLocked(task Task[I, O]) {
	s.lastTask++
	id := s.lastTask
	s.running[id] = task
	s.counts.tasksStarted++
	s.counts.maxRunning = max(s.counts.maxRunning, len(s.running))

	s.logger.Debug("task started",
		zap.Uint64("task", id),
		zap.Int("running", len(s.running)),
		zap.Int("ceiling", s.ceilingLocked()))

	s.gate.NotifyAll()

	sub := &Submitter[I, O]{s: s, taskID: id}
	go s.runTask(id, task, sub)
}

func (s *Scheduler[I, O]) runTask(id uint64, task Task[I, O], sub *Submitter[I, O]) {
	err := runTask(s.ctx, task, sub)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.running, id)
	if err != nil {
		s.failed = append(s.failed, TaskFailure[I, O]{ID: id, Task: task, Err: err})
		s.logger.Warn("task failed", zap.Uint64("task", id), zap.Error(err))
	} else {
		s.logger.Debug("task finished", zap.Uint64("task", id))
	}
	s.gate.NotifyAll()

	// Put the freed slot to use right away.
	s.topUpLocked()
}

func (s *Scheduler[I, O]) submit(taskID uint64, input I) *Future[O] {
	s.mu.Lock()
	s.lastSeq++
	f := newFuture[O](s.lastSeq)
	if s.finished {
		s.mu.Unlock()
		var zero O
		f.resolve(zero, ErrFinished)
		return f
	}
	s.queue.PushBack(&pending[I, O]{
		seq:    f.seq,
		taskID: taskID,
		input:  input,
		future: f,
	})
	s.counts.actionsSubmitted++
	s.mu.Unlock()

	s.gate.NotifyAll()
	return f
}

func (s *Scheduler[I, O]) resolve(p *pending[I, O], value O, err error) {
	s.mu.Lock()
	if _, ok := s.inFlight[p.seq]; !ok {
		s.mu.Unlock()
		panic("action resolved more than once")
	}
	delete(s.inFlight, p.seq)
	if err != nil {
		s.counts.actionsFailed++
	} else {
		s.counts.actionsSucceeded++
	}
	s.mu.Unlock()

	p.future.resolve(value, err)
}

func (s *Scheduler[I, O]) finishLocked() {
	if s.finished {
		return
	}
	s.finished = true
	close(s.done)
	s.logger.Info("scheduler finished",
		zap.Uint64("tasks", s.counts.tasksStarted),
		zap.Int("failed_tasks", len(s.failed)),
		zap.Uint64("actions", s.counts.actionsSubmitted))
	s.gate.NotifyAll()
}

// ceilingLocked evaluates the concurrency limit. A derived limit is computed
// from the current worker count on every call.
func (s *Scheduler[I, O]) ceilingLocked() int {
	if s.cfg.limit > 0 {
		return s.cfg.limit
	}
	return s.cfg.tasksPerWorker * len(s.workers)
}
