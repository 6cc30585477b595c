// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cockpit-project/imgfetch/pkg/fetch"
)

// logfileReporter is the non-interactive fetch.Reporter: one line per
// noteworthy event (mirror sizes, errors, block completions) and a
// periodic summary line instead of a redrawn bar, matching the original
// implementation's LogfileUI for output that is not attached to a
// terminal (piped to a file, captured by a test harness, journald, ...).
type logfileReporter struct {
	out io.Writer

	mu         sync.Mutex
	start      time.Time
	size       int64
	downloaded int64
	lastReport time.Time
}

// NewLogfile builds a Reporter that writes plain, timestamp-free lines to w.
func NewLogfile(w io.Writer) fetch.Reporter {
	return &logfileReporter{out: w}
}

func (r *logfileReporter) Start(mirrors []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.start = time.Now()
	fmt.Fprintf(r.out, "starting download from %d mirror(s)\n", len(mirrors))
	for _, m := range mirrors {
		fmt.Fprintf(r.out, "  mirror: %s\n", m)
	}
}

func (r *logfileReporter) ReportSize(mirror string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size == 0 {
		r.size = size
	}
	fmt.Fprintf(r.out, "%s: size %s\n", mirror, formatSize(size))
}

func (r *logfileReporter) ReportError(mirror string, kind fetch.TransportErrorKind, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s: error (%s): %s\n", mirror, kind, detail)
}

func (r *logfileReporter) ReportProgress(mirror string, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.downloaded += n

	// Throttle the summary line to once a second; per-chunk lines would
	// flood the log on a 64KiB buffer.
	now := time.Now()
	if now.Sub(r.lastReport) < time.Second {
		return
	}
	r.lastReport = now

	elapsed := now.Sub(r.start).Seconds()
	speed := formatSpeed(r.downloaded, elapsed)
	if speed == "" {
		fmt.Fprintf(r.out, "progress: %s", formatSize(r.downloaded))
	} else {
		fmt.Fprintf(r.out, "progress: %s (%s)", formatSize(r.downloaded), speed)
	}
	if r.size > 0 {
		fmt.Fprintf(r.out, " of %s", formatSize(r.size))
	}
	fmt.Fprintln(r.out)
}

func (r *logfileReporter) ReportBlock(mirror string, block fetch.Block) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s: block %d done\n", mirror, block.Index)
}

func (r *logfileReporter) Refresh() {}

func (r *logfileReporter) Fatal(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "fatal: %s\n", msg)
}

func (r *logfileReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "download complete")
}
