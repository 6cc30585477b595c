// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package fetch

import (
	"fmt"
	"os"
	"path/filepath"
)

// portableAtomicFile implements atomicFile without O_TMPFILE, for
// platforms that lack it: the anonymous file is a named temp file in the
// target directory, synced, hard-linked into place (discarding on
// EEXIST, so a pre-existing file wins exactly as on Linux), and finally
// unlinked under its temporary name.
type portableAtomicFile struct {
	file *os.File
	path string
	tmp  string
}

func createFileImpl(path string, size int64, mode uint32) (atomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".imgfetch-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("opening temp file in %s: %w", dir, err)
	}
	if err := tmp.Chmod(os.FileMode(mode)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	if size > 0 {
		if err := tmp.Truncate(size); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, fmt.Errorf("preallocating %d bytes: %w", size, err)
		}
		if _, err := tmp.Seek(0, 0); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, err
		}
	}

	return &portableAtomicFile{file: tmp, path: path, tmp: tmp.Name()}, nil
}

func (f *portableAtomicFile) Write(p []byte) (int, error) { return f.file.Write(p) }

func (f *portableAtomicFile) Commit() error {
	defer os.Remove(f.tmp)
	defer f.file.Close()

	if err := f.file.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", f.path, err)
	}

	err := os.Link(f.tmp, f.path)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("linking %s into place: %w", f.path, err)
	}
	return nil
}

func (f *portableAtomicFile) Discard() error {
	defer os.Remove(f.tmp)
	return f.file.Close()
}
