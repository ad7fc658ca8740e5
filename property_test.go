// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petenewcomb/pull-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type taskPlan struct {
	Actions    int
	Concurrent bool
	Fail       bool
}

// TestSchedulerWithRapid runs randomly shaped workloads and checks the
// invariants that must hold for every run: the concurrency ceiling is never
// exceeded, every submitted action runs exactly once and resolves its future,
// failed tasks are recorded, and the scheduler finishes.
func TestSchedulerWithRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		ctx := context.Background()

		plans := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) taskPlan {
			return taskPlan{
				Actions:    rapid.IntRange(0, 6).Draw(t, "actions"),
				Concurrent: rapid.Bool().Draw(t, "concurrent"),
				Fail:       rapid.IntRange(0, 9).Draw(t, "failRoll") == 0,
			}
		}), 0, 20).Draw(t, "plans")
		workerCount := rapid.IntRange(1, 4).Draw(t, "workers")
		limit := rapid.IntRange(0, 5).Draw(t, "limit")
		failModulus := rapid.IntRange(2, 11).Draw(t, "failModulus")

		var opts []pull.Option
		ceiling := pull.DefaultTasksPerWorker * workerCount
		if limit > 0 {
			opts = append(opts, pull.WithConcurrencyLimit(limit))
			ceiling = limit
		}

		var running, maxRunning atomic.Int32
		var resolved atomic.Int32
		errPlanned := errors.New("planned task failure")
		errAction := errors.New("planned action failure")

		var tasks []pull.Task[int, int]
		for i, plan := range plans {
			tasks = append(tasks, pull.TaskFunc[int, int](func(ctx context.Context, sub *pull.Submitter[int, int]) error {
				n := running.Add(1)
				for {
					m := maxRunning.Load()
					if n <= m || maxRunning.CompareAndSwap(m, n) {
						break
					}
				}
				defer running.Add(-1)

				var futures []*pull.Future[int]
				var inputs []int
				for j := range plan.Actions {
					in := i*100 + j
					if plan.Concurrent {
						futures = append(futures, sub.Submit(in))
						inputs = append(inputs, in)
						continue
					}
					out, err := sub.Perform(ctx, in)
					resolved.Add(1)
					if err == nil && out != in+1 {
						return errors.New("wrong result")
					}
				}
				for k, f := range futures {
					out, err := f.Wait(ctx)
					resolved.Add(1)
					if err == nil && out != inputs[k]+1 {
						return errors.New("wrong result")
					}
				}
				if plan.Fail {
					return errPlanned
				}
				return nil
			}))
		}

		var executedMu sync.Mutex
		var executed []int
		s := pull.NewScheduler[int, int](ctx, pull.NewSliceProvider(tasks...), opts...)
		for w := range workerCount {
			s.RegisterWorker(pull.NewWorker(string(rune('a'+w)), func(_ context.Context, in int) (int, error) {
				executedMu.Lock()
				executed = append(executed, in)
				executedMu.Unlock()
				if in%failModulus == 0 {
					return 0, errAction
				}
				return in + 1, nil
			}))
		}

		waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		chk.NoError(s.WaitUntilFinished(waitCtx))

		var expectedInputs []int
		expectedFailedActions := 0
		expectedFailedTasks := 0
		for i, plan := range plans {
			for j := range plan.Actions {
				in := i*100 + j
				expectedInputs = append(expectedInputs, in)
				if in%failModulus == 0 {
					expectedFailedActions++
				}
			}
			if plan.Fail {
				expectedFailedTasks++
			}
		}

		executedMu.Lock()
		got := slices.Clone(executed)
		executedMu.Unlock()
		slices.Sort(got)
		slices.Sort(expectedInputs)
		chk.Equal(expectedInputs, got, "every action must run exactly once")
		chk.Equal(int32(len(expectedInputs)), resolved.Load())

		chk.LessOrEqual(int(maxRunning.Load()), ceiling)
		stats := s.Stats()
		chk.LessOrEqual(stats.MaxRunning, ceiling)
		chk.True(stats.Finished)
		chk.True(stats.Exhausted)
		chk.Zero(stats.Running)
		chk.Zero(stats.Queued)
		chk.Zero(stats.InFlight)
		chk.Equal(uint64(len(plans)), stats.TasksStarted)
		chk.Equal(uint64(len(expectedInputs)), stats.ActionsSubmitted)
		chk.Equal(uint64(expectedFailedActions), stats.ActionsFailed)

		failed := s.FailedTasks()
		chk.Len(failed, expectedFailedTasks)
		for _, f := range failed {
			chk.ErrorIs(f.Err, errPlanned)
			chk.True(plans[f.ID-1].Fail)
		}
	})
}
