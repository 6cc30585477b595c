// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package ui provides the two fetch.Reporter implementations imgfetch
// chooses between at startup: a live, bar-based renderer for an
// interactive terminal, and a plain line-oriented one for everything
// else. The choice mirrors create_ui() in the original implementation.
package ui

import (
	"os"

	"golang.org/x/term"

	"github.com/cockpit-project/imgfetch/pkg/fetch"
)

// Select returns the fancy terminal reporter when out is an interactive
// terminal, and a logfile reporter writing to out otherwise.
func Select(out *os.File) fetch.Reporter {
	if term.IsTerminal(int(out.Fd())) {
		return NewFancy()
	}
	return NewLogfile(out)
}
