// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package pull_test

import (
	"context"
	"fmt"
	"strings"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	pull "github.com/petenewcomb/pull-go"
)

// "Hello world" example in which two tasks each ask a worker to shout a word.
//
//nolint:errcheck
func Example_hello() {
	ctx := context.Background()

	var words []string
	newTask := func(s string) pull.Task[string, string] {
		return pull.TaskFunc[string, string](func(ctx context.Context, sub *pull.Submitter[string, string]) error {
			word, err := sub.Perform(ctx, s)
			if err != nil {
				return err
			}
			words = append(words, word)
			return nil
		})
	}

	provider := pull.NewSliceProvider(newTask("Hello"), newTask("world!"))
	sched := pull.NewScheduler[string, string](ctx, provider, pull.WithConcurrencyLimit(1))
	sched.RegisterWorker(pull.NewWorker("shouter", func(_ context.Context, s string) (string, error) {
		return strings.ToUpper(s), nil
	}))

	sched.WaitUntilFinished(ctx)
	fmt.Println(strings.Join(words, " "))
	// Output: HELLO WORLD!
}
