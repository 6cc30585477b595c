// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

// Reporter is the capability set the Supervisor invokes to surface
// progress. Every method must be safe to call repeatedly and cheap enough
// to invoke per chunk; none may block for long or panic. Two
// implementations (a TTY-aware renderer and a plain logfile renderer) are
// provided externally in package internal/ui — this package depends only
// on the interface (§4.5, §6).
type Reporter interface {
	// Start is called once, before any worker is spawned.
	Start(mirrors []string)

	// ReportSize is called whenever a mirror's HEAD probe succeeds.
	ReportSize(mirror string, size int64)

	// ReportError is called whenever a mirror dies.
	ReportError(mirror string, kind TransportErrorKind, detail string)

	// ReportProgress is called for every chunk received. mirror is empty
	// when the bytes are "accounted but unattributed" — i.e. the block
	// was already on disk and nobody actually transferred it this run
	// (§4.3.a).
	ReportProgress(mirror string, n int64)

	// ReportBlock is called once a block is fully materialized,
	// regardless of whether this worker downloaded it or found it
	// already present.
	ReportBlock(mirror string, block Block)

	// Refresh is called once per supervisor loop iteration, including on
	// the idle timeout, so animated UIs can tick even with no events.
	Refresh()

	// Fatal is called exactly once, if the run cannot complete.
	Fatal(msg string)

	// Finish is called exactly once, on a successful run.
	Finish()
}

// NopReporter implements Reporter with no-ops; embed it to implement only
// the methods you care about.
type NopReporter struct{}

func (NopReporter) Start([]string)                                  {}
func (NopReporter) ReportSize(string, int64)                        {}
func (NopReporter) ReportError(string, TransportErrorKind, string)  {}
func (NopReporter) ReportProgress(string, int64)                    {}
func (NopReporter) ReportBlock(string, Block)                       {}
func (NopReporter) Refresh()                                        {}
func (NopReporter) Fatal(string)                                    {}
func (NopReporter) Finish()                                         {}
