// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package dirwalk

import (
	"context"
	"crypto/sha256"

	"github.com/petenewcomb/pull-go"
)

// HashWorker is a [pull.Worker] that computes the SHA-256 digest of a chunk.
type HashWorker struct {
	id string
}

var _ pull.Worker[Chunk, Digest] = (*HashWorker)(nil)

func NewHashWorker(id string) *HashWorker {
	return &HashWorker{id: id}
}

func (w *HashWorker) ID() string {
	return w.id
}

func (w *HashWorker) RunAction(ctx context.Context, c Chunk) (Digest, error) {
	if err := ctx.Err(); err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(c.Data), nil
}
