// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMirrors_MissingConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	mirrors, err := loadMirrors(filepath.Join(dir, "does-not-exist.json"))
	if err != nil {
		t.Fatalf("loadMirrors: %v", err)
	}
	if len(mirrors) != len(defaultMirrors) {
		t.Fatalf("expected %d default mirrors, got %d", len(defaultMirrors), len(mirrors))
	}
}

func TestLoadMirrors_ConfigOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imgfetch.json")
	if err := os.WriteFile(path, []byte(`{"mirrors": ["https://a.example/", "https://b.example/"]}`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	mirrors, err := loadMirrors(path)
	if err != nil {
		t.Fatalf("loadMirrors: %v", err)
	}
	if len(mirrors) != 2 || mirrors[0] != "https://a.example/" {
		t.Errorf("expected overridden mirrors, got %v", mirrors)
	}
}

func TestLoadMirrors_EmptyConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imgfetch.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	mirrors, err := loadMirrors(path)
	if err != nil {
		t.Fatalf("loadMirrors: %v", err)
	}
	if len(mirrors) != len(defaultMirrors) {
		t.Errorf("expected defaults for an empty mirror list, got %v", mirrors)
	}
}

func TestResolveCABundle_UsesConfiguredPathWhenSet(t *testing.T) {
	got, err := resolveCABundle("/etc/imgfetch/custom-ca.pem")
	if err != nil {
		t.Fatalf("resolveCABundle: %v", err)
	}
	if got != "/etc/imgfetch/custom-ca.pem" {
		t.Errorf("expected configured path to win, got %q", got)
	}
}

func TestResolveCABundle_FallsBackNextToExecutable(t *testing.T) {
	got, err := resolveCABundle("")
	if err != nil {
		t.Fatalf("resolveCABundle: %v", err)
	}
	if filepath.Base(got) != "ca.pem" {
		t.Errorf("expected fallback path to end in ca.pem, got %q", got)
	}
}
