// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package xdg resolves config and cache directories the way Cockpit's
// directories.py does: an XDG base directory, optionally overridden
// wholesale by a per-component environment variable. It is ambient glue
// consumed by internal/cli; pkg/fetch never imports it and never reads
// environment variables itself (SPEC_FULL.md §6).
package xdg

import (
	"os"
	"path/filepath"
)

// home mirrors directories.py's xdg_home exactly, including its one
// surprising detail: when override names a set environment variable, that
// variable's value IS the result — components are not appended to it. The
// override exists so a single env var can point straight at a specific
// file (e.g. an alternate CA bundle), not just redirect a base directory.
func home(subdir, envVar, override string, components ...string) string {
	if override != "" {
		if v := os.Getenv(override); v != "" {
			return v
		}
	}
	directory := os.Getenv(envVar)
	if directory == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			h = "."
		}
		directory = filepath.Join(h, subdir)
	}
	return filepath.Join(append([]string{directory}, components...)...)
}

// ConfigHome returns $XDG_CONFIG_HOME/<components...>, falling back to
// ~/.config/<components...>, unless override names a set environment
// variable, in which case that value replaces the computed base entirely.
func ConfigHome(override string, components ...string) string {
	return home(".config", "XDG_CONFIG_HOME", override, components...)
}

// CacheHome returns $XDG_CACHE_HOME/<components...>, falling back to
// ~/.cache/<components...>, with the same override semantics as
// ConfigHome.
func CacheHome(override string, components ...string) string {
	return home(".cache", "XDG_CACHE_HOME", override, components...)
}
