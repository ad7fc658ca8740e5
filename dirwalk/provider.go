// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package dirwalk

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"

	"github.com/addrummond/heap"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/petenewcomb/pull-go"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Provider is a [pull.TaskProvider] yielding one [*File] task per regular
// file found under a root directory, largest first. The walk happens once, in
// [NewProvider]; files are opened only when their task runs.
type Provider struct {
	fs     afero.Fs
	cfg    config
	logger *zap.Logger

	mu        sync.Mutex
	files     heap.Heap[fileEntry, heap.Min]
	remaining int
	count     int
	bytes     int64
}

var _ pull.TaskProvider[Chunk, Digest] = (*Provider)(nil)

type fileEntry struct {
	rel  string
	abs  string
	size int64
}

// Cmp orders larger files first and breaks ties by path so the order is
// deterministic.
func (a *fileEntry) Cmp(b *fileEntry) int {
	if c := cmp.Compare(b.size, a.size); c != 0 {
		return c
	}
	return cmp.Compare(a.rel, b.rel)
}

// NewProvider walks root on fsys and returns a provider for the files found.
// It fails if a pattern is malformed or the walk cannot read a directory.
func NewProvider(fsys afero.Fs, root string, opts ...Option) (*Provider, error) {
	if fsys == nil {
		panic("filesystem must be non-nil")
	}
	cfg := config{
		chunkSize:  DefaultChunkSize,
		maxPending: DefaultMaxPendingChunks,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, pattern := range slices.Concat(cfg.include, cfg.exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	p := &Provider{
		fs:     fsys,
		cfg:    cfg,
		logger: cfg.logger,
	}
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if matchAny(cfg.exclude, rel) {
			p.logger.Debug("excluded", zap.String("path", rel))
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if len(cfg.include) > 0 && !matchAny(cfg.include, rel) {
			return nil
		}
		heap.PushOrderable(&p.files, fileEntry{rel: rel, abs: path, size: info.Size()})
		p.count++
		p.remaining++
		p.bytes += info.Size()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	p.logger.Debug("walk complete",
		zap.String("root", root),
		zap.Int("files", p.count),
		zap.Int64("bytes", p.bytes))
	return p, nil
}

// matchAny reports whether name matches any of the already validated
// patterns.
func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}
	return false
}

// NextTask returns the largest remaining file.
func (p *Provider) NextTask(context.Context) (pull.Task[Chunk, Digest], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := heap.PopOrderable(&p.files)
	if !ok {
		return nil, false
	}
	p.remaining--
	return &File{
		Path: e.rel,
		Size: e.size,
		abs:  e.abs,
		p:    p,
	}, true
}

// Count returns the number of files found by the walk.
func (p *Provider) Count() int {
	return p.count
}

// Bytes returns the total size of the files found by the walk.
func (p *Provider) Bytes() int64 {
	return p.bytes
}

// Remaining returns the number of files not yet handed out.
func (p *Provider) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}
