// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package dirwalk

import (
	"go.uber.org/zap"
)

// DefaultChunkSize is the chunk size used when [WithChunkSize] is not given.
const DefaultChunkSize = 1 << 20

// DefaultMaxPendingChunks is the per-file limit on outstanding chunks used when
// [WithMaxPendingChunks] is not given.
const DefaultMaxPendingChunks = 8

// FileResult reports the digest of one successfully hashed file.
type FileResult struct {
	// Path is relative to the walk root and uses forward slashes.
	Path   string
	Size   int64
	Chunks int
	Digest Digest
}

type config struct {
	include    []string
	exclude    []string
	chunkSize  int
	maxPending int
	onFile     func(FileResult)
	logger     *zap.Logger
}

// Option configures a [Provider].
type Option func(*config)

// WithInclude restricts the walk to files whose root-relative path matches at
// least one of the given doublestar patterns, such as "**/*.go". Without it,
// every regular file is included.
func WithInclude(patterns ...string) Option {
	return func(c *config) {
		c.include = append(c.include, patterns...)
	}
}

// WithExclude skips files, and whole directories, whose root-relative path
// matches any of the given doublestar patterns.
func WithExclude(patterns ...string) Option {
	return func(c *config) {
		c.exclude = append(c.exclude, patterns...)
	}
}

func WithChunkSize(n int) Option {
	if n < 1 {
		panic("chunk size must be at least one")
	}
	return func(c *config) {
		c.chunkSize = n
	}
}

// WithMaxPendingChunks limits how many chunks of one file may be submitted
// and not yet collected. Together with the chunk size it bounds the memory held
// by each open file.
func WithMaxPendingChunks(n int) Option {
	if n < 1 {
		panic("max pending chunks must be at least one")
	}
	return func(c *config) {
		c.maxPending = n
	}
}

// WithOnFile sets a callback invoked from the file's task goroutine after
// each file is hashed. It may be called concurrently.
func WithOnFile(fn func(FileResult)) Option {
	return func(c *config) {
		c.onFile = fn
	}
}

func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		panic("logger must be non-nil")
	}
	return func(c *config) {
		c.logger = logger
	}
}
