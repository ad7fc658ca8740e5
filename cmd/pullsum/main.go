// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command pullsum prints a SHA-256 based digest for every file under a
// directory. Files are hashed in fixed-size chunks by a pool of pulling
// workers, largest file first, with a bounded number of files open at once.
//
// Usage:
//
//	pullsum [flags] DIR
//
// Each output line has the form "<digest>  <path>", sorted by path. Files that
// could not be hashed are listed on standard error and make the command exit
// with status 1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "pullsum:", err)
		os.Exit(1)
	}
}
