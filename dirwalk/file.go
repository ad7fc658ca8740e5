// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package dirwalk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/petenewcomb/pull-go"
	"go.uber.org/zap"
)

// File is the task that hashes a single file. It appears as the Task of a
// [pull.TaskFailure] when hashing fails.
type File struct {
	// Path is relative to the walk root and uses forward slashes.
	Path string
	// Size is the size observed during the walk.
	Size int64

	abs string
	p   *Provider
}

var _ pull.Task[Chunk, Digest] = (*File)(nil)

// Run reads the file chunk by chunk, keeping up to the configured number of
// chunks outstanding so that they spread across workers while the memory held
// per open file stays bounded.
func (f *File) Run(ctx context.Context, sub *pull.Submitter[Chunk, Digest]) error {
	fh, err := f.p.fs.Open(f.abs)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", f.Path, err)
	}
	defer fh.Close()

	var (
		digests   []Digest
		pending   []*pull.Future[Digest]
		actionErr error
		readErr   error
		size      int64
	)
	// await collects the oldest outstanding chunk.
	await := func() {
		d, err := pending[0].Wait(ctx)
		pending[0] = nil
		pending = pending[1:]
		if err != nil {
			if actionErr == nil {
				actionErr = err
			}
			return
		}
		digests = append(digests, d)
	}

	for index := 0; actionErr == nil; {
		if len(pending) == f.p.cfg.maxPending {
			await()
			continue
		}
		buf := make([]byte, f.p.cfg.chunkSize)
		n, err := io.ReadFull(fh, buf)
		if n > 0 {
			pending = append(pending, sub.Submit(Chunk{Path: f.Path, Index: index, Data: buf[:n]}))
			size += int64(n)
			index++
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			readErr = err
			break
		}
	}
	// Drain even after a failure so no chunk outlives its task.
	for len(pending) > 0 {
		await()
	}
	if err := errors.Join(readErr, actionErr); err != nil {
		return fmt.Errorf("hashing %s: %w", f.Path, err)
	}

	result := FileResult{
		Path:   f.Path,
		Size:   size,
		Chunks: len(digests),
		Digest: combine(digests),
	}
	f.p.logger.Debug("file hashed",
		zap.String("path", f.Path),
		zap.Int64("size", size),
		zap.Int("chunks", result.Chunks),
		zap.Stringer("digest", result.Digest))
	if f.p.cfg.onFile != nil {
		f.p.cfg.onFile(result)
	}
	return nil
}
