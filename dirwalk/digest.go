// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package dirwalk

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
)

// Digest is a SHA-256 digest of a chunk or of a whole file.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Chunk is one fixed-size piece of a file, submitted as a single action.
type Chunk struct {
	Path  string
	Index int
	Data  []byte
}

// combine folds chunk digests, in chunk order, into a file digest.
func combine(chunks []Digest) Digest {
	h := sha256.New()
	for _, d := range chunks {
		h.Write(d[:])
	}
	var out Digest
	h.Sum(out[:0])
	return out
}

// Sum computes sequentially the digest that a scheduled run produces for the
// contents of r split into chunks of chunkSize bytes.
func Sum(r io.Reader, chunkSize int) (Digest, error) {
	if chunkSize < 1 {
		panic("chunk size must be at least one")
	}
	var chunks []Digest
	buf := make([]byte, chunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			chunks = append(chunks, sha256.Sum256(buf[:n]))
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return combine(chunks), nil
		}
		if err != nil {
			return Digest{}, err
		}
	}
}
