// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petenewcomb/pull-go"
	"github.com/petenewcomb/pull-go/dirwalk"
	"github.com/petenewcomb/pull-go/internal/cerr"
	"github.com/petenewcomb/pull-go/otpull"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// errFilesFailed is returned when the run completed but some files could not
// be hashed.
const errFilesFailed = cerr.Error("some files could not be hashed")

// run hashes the files under root and writes the report. Digests go to stdout
// and failures to stderr.
func run(
	ctx context.Context,
	cfg Config,
	fsys afero.Fs,
	root string,
	stdout, stderr io.Writer,
	logger *zap.Logger,
) error {
	runID := uuid.New()
	logger = logger.With(zap.Stringer("run", runID))

	var mu sync.Mutex
	var results []dirwalk.FileResult
	provider, err := dirwalk.NewProvider(fsys, root,
		dirwalk.WithInclude(cfg.Include...),
		dirwalk.WithExclude(cfg.Exclude...),
		dirwalk.WithChunkSize(cfg.ChunkSize),
		dirwalk.WithLogger(logger),
		dirwalk.WithOnFile(func(r dirwalk.FileResult) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, r)
		}))
	if err != nil {
		return err
	}
	logger.Info("starting",
		zap.String("root", root),
		zap.Int("files", provider.Count()),
		zap.Int64("bytes", provider.Bytes()),
		zap.Int("workers", cfg.Workers))

	opts := []pull.Option{
		pull.WithTasksPerWorker(cfg.TasksPerWorker),
		pull.WithLogger(logger),
	}
	if cfg.MaxOpenFiles > 0 {
		opts = append(opts, pull.WithConcurrencyLimit(cfg.MaxOpenFiles))
	}
	s := pull.NewScheduler[dirwalk.Chunk, dirwalk.Digest](ctx, provider, opts...)

	startTime := time.Now()
	for range cfg.Workers {
		w := dirwalk.NewHashWorker(uuid.NewString())
		s.RegisterWorker(otpull.LoggedWorker("hash", w))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.WaitUntilFinished(gctx)
	})
	if cfg.ProgressInterval > 0 {
		g.Go(func() error {
			reportProgress(gctx, s, provider, cfg.ProgressInterval, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}

	stats := s.Stats()
	logger.Info("finished",
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Uint64("files", stats.TasksStarted),
		zap.Int("failed", stats.TasksFailed),
		zap.Uint64("chunks", stats.ActionsSucceeded),
		zap.Int("max_open_files", stats.MaxRunning))

	slices.SortFunc(results, func(a, b dirwalk.FileResult) int {
		return cmp.Compare(a.Path, b.Path)
	})
	for _, r := range results {
		if _, err := fmt.Fprintf(stdout, "%s  %s\n", r.Digest, r.Path); err != nil {
			return err
		}
	}

	failed := s.FailedTasks()
	if len(failed) == 0 {
		return nil
	}
	slices.SortFunc(failed, func(a, b pull.TaskFailure[dirwalk.Chunk, dirwalk.Digest]) int {
		return cmp.Compare(a.Task.(*dirwalk.File).Path, b.Task.(*dirwalk.File).Path)
	})
	fmt.Fprintf(stderr, "%d of %d files failed:\n", len(failed), provider.Count())
	for _, f := range failed {
		fmt.Fprintf(stderr, "  %v\n", f.Err)
	}
	return errFilesFailed
}

// reportProgress logs scheduler state every interval until s finishes or ctx
// is done.
func reportProgress(
	ctx context.Context,
	s *pull.Scheduler[dirwalk.Chunk, dirwalk.Digest],
	p *dirwalk.Provider,
	interval time.Duration,
	logger *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.Done():
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := s.Stats()
			logger.Info("progress",
				zap.Int("files_remaining", p.Remaining()),
				zap.Int("files_open", st.Running),
				zap.Int("chunks_queued", st.Queued),
				zap.Int("chunks_in_flight", st.InFlight),
				zap.Uint64("chunks_hashed", st.ActionsSucceeded))
		}
	}
}
