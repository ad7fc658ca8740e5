// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package dirwalk hashes the files under a directory using a
// [pull.Scheduler]. A [Provider] supplies one task per file, largest file
// first, and each task splits its file into fixed-size [Chunk] actions that
// pulling [HashWorker]s turn into SHA-256 digests. The chunk digests of a file
// are combined, in order, into the file's [Digest].
//
// Because the scheduler starts tasks lazily, only a bounded number of files
// are open at any time regardless of how many the walk found.
package dirwalk
