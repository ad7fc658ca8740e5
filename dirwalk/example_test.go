// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package dirwalk_test

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"slices"
	"sync"

	"github.com/petenewcomb/pull-go"
	"github.com/petenewcomb/pull-go/dirwalk"
	"github.com/spf13/afero"
)

// Example hashes a small in-memory tree with one worker per CPU, in the
// spirit of the MD5All function from [Go Concurrency Patterns: Pipelines and
// cancellation].
//
// [Go Concurrency Patterns: Pipelines and cancellation]: https://blog.golang.org/pipelines
func Example() {
	ctx := context.Background()

	fsys := afero.NewMemMapFs()
	for name, content := range map[string]string{
		"/tree/hello.txt":     "hello",
		"/tree/sub/world.txt": "world",
		"/tree/sub/skip.tmp":  "scratch",
	} {
		if err := afero.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			log.Fatal(err)
		}
	}

	var mu sync.Mutex
	var lines []string
	provider, err := dirwalk.NewProvider(fsys, "/tree",
		dirwalk.WithExclude("**/*.tmp"),
		dirwalk.WithOnFile(func(r dirwalk.FileResult) {
			mu.Lock()
			defer mu.Unlock()
			lines = append(lines, fmt.Sprintf("%s %s", r.Digest.String()[:12], r.Path))
		}))
	if err != nil {
		log.Fatal(err)
	}

	sched := pull.NewScheduler[dirwalk.Chunk, dirwalk.Digest](ctx, provider)
	for i := range runtime.NumCPU() {
		sched.RegisterWorker(dirwalk.NewHashWorker(fmt.Sprint(i)))
	}
	if err := sched.WaitUntilFinished(ctx); err != nil {
		log.Fatal(err)
	}

	slices.Sort(lines)
	for _, line := range lines {
		fmt.Println(line)
	}

	// Output:
	// 63e5c163c81e sub/world.txt
	// 9595c9df9007 hello.txt
}
