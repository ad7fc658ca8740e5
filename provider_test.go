// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull_test

import (
	"context"
	"testing"

	"github.com/petenewcomb/pull-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type namedTask string

func (namedTask) Run(context.Context, *pull.Submitter[int, int]) error {
	return nil
}

func TestSliceProviderBasicFunctionality(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	p := pull.NewSliceProvider[int, int](namedTask("a"), namedTask("b"))
	chk.Equal(2, p.Len())

	task, ok := p.NextTask(ctx)
	chk.True(ok)
	chk.Equal(namedTask("a"), task)

	p.Push(namedTask("c"))

	task, ok = p.NextTask(ctx)
	chk.True(ok)
	chk.Equal(namedTask("b"), task)

	task, ok = p.NextTask(ctx)
	chk.True(ok)
	chk.Equal(namedTask("c"), task)

	// Exhaustion is permanent.
	for range 3 {
		task, ok = p.NextTask(ctx)
		chk.False(ok)
		chk.Nil(task)
	}
	chk.PanicsWithValue("provider already exhausted", func() {
		p.Push(namedTask("d"))
	})
}

func TestSliceProviderDoesNotAliasInput(t *testing.T) {
	chk := require.New(t)
	tasks := []pull.Task[int, int]{namedTask("a"), namedTask("b")}
	p := pull.NewSliceProvider(tasks...)
	tasks[0] = namedTask("z")

	task, ok := p.NextTask(context.Background())
	chk.True(ok)
	chk.Equal(namedTask("a"), task)
}

func TestSliceProviderNilTask(t *testing.T) {
	chk := require.New(t)
	chk.PanicsWithValue("task must be non-nil", func() {
		_ = pull.NewSliceProvider[int, int](namedTask("a"), nil)
	})
	p := pull.NewSliceProvider[int, int]()
	chk.PanicsWithValue("task must be non-nil", func() {
		p.Push(nil)
	})
}

// TestSliceProviderWithRapid checks the provider against a slice model.
func TestSliceProviderWithRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		initial := rapid.SliceOf(rapid.StringMatching(`[a-z]{1,4}`)).Draw(t, "initial")
		var model []pull.Task[int, int]
		for _, name := range initial {
			model = append(model, namedTask(name))
		}
		p := pull.NewSliceProvider(model...)
		exhausted := false

		t.Repeat(map[string]func(*rapid.T){
			"push": func(t *rapid.T) {
				if exhausted {
					t.Skip("provider is exhausted")
				}
				task := namedTask(rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "name"))
				p.Push(task)
				model = append(model, task)
			},
			"next": func(t *rapid.T) {
				task, ok := p.NextTask(ctx)
				if len(model) == 0 {
					require.False(t, ok, "NextTask returned a task from an empty provider")
					exhausted = true
					return
				}
				require.True(t, ok, "NextTask reported exhaustion early")
				require.Equal(t, model[0], task)
				model = model[1:]
			},
			"": func(t *rapid.T) {
				require.Equal(t, len(model), p.Len())
			},
		})
	})
}
