// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import "io"

// atomicFile is a write handle into an anonymous file that is linked into
// its final name only on a clean Commit. Discard (or any error path that
// skips Commit) leaves no trace at the target path.
//
// If a file already exists at the target path when Commit runs, the
// existing file wins: Commit succeeds without error and the freshly
// written bytes are discarded. This makes block downloads idempotent
// across racing workers and across re-runs (§4.1).
type atomicFile interface {
	io.Writer
	// Commit flushes and syncs the written bytes, then links them into
	// place. It must be called at most once.
	Commit() error
	// Discard abandons the anonymous file without linking it anywhere.
	Discard() error
}

// createFile opens an anonymous file in the directory of path (creating
// that directory if necessary), optionally preallocating size bytes, and
// returns a handle that links it into place on Commit. mode is applied to
// the anonymous file and therefore to the final link.
//
// This is implemented per-OS: atomicfile_linux.go uses O_TMPFILE + linkat
// exactly as the original Python implementation does; atomicfile_other.go
// falls back to a named temp file plus a hard link, preserving the same
// externally observable guarantee (no observer ever sees a partial file
// at path).
func createFile(path string, size int64, mode uint32) (atomicFile, error) {
	return createFileImpl(path, size, mode)
}
