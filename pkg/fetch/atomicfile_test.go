// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateFile_CommitWritesContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	f, err := createFile(path, 0, 0o444)
	if err != nil {
		t.Fatalf("createFile: %v", err)
	}
	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestCreateFile_DiscardLeavesNoTrace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	f, err := createFile(path, 0, 0o444)
	if err != nil {
		t.Fatalf("createFile: %v", err)
	}
	if _, err := f.Write([]byte("nope")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Discard(); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to not exist after Discard, stat err = %v", path, err)
	}
}

func TestCreateFile_ExistingFileWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	if err := os.WriteFile(path, []byte("original"), 0o444); err != nil {
		t.Fatalf("seeding existing file: %v", err)
	}

	f, err := createFile(path, 0, 0o444)
	if err != nil {
		t.Fatalf("createFile: %v", err)
	}
	if _, err := f.Write([]byte("racing-writer")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Commit(); err != nil {
		t.Fatalf("Commit should succeed even when the target already exists: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("expected pre-existing contents %q to win, got %q", "original", got)
	}
}

func TestCreateFile_CreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "child", "out")

	f, err := createFile(path, 0, 0o444)
	if err != nil {
		t.Fatalf("createFile: %v", err)
	}
	if err := f.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}
