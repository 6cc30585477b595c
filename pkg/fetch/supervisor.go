// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Download runs one multi-mirror block-parallel transfer to completion or
// fatal failure (§1). It returns nil only once job.Destination exists with
// the complete, correct contents.
func Download(ctx context.Context, job Job, settings Settings, reporter Reporter) error {
	if len(job.Mirrors) == 0 {
		err := pkgerrors.New("no mirrors supplied")
		reporter.Fatal(err.Error())
		return err
	}

	if _, err := os.Stat(job.Destination); err == nil {
		// Idempotent re-run: the destination already exists, so there is
		// nothing to do (§8 "block idempotence").
		reporter.Start(job.Mirrors)
		reporter.Finish()
		return nil
	}

	reporter.Start(job.Mirrors)

	partialDir := job.Destination + ".partial"
	work := newWorkQueue()
	status := newStatusQueue()
	done := make(chan struct{})

	group, groupCtx := errgroup.WithContext(ctx)
	workers := make(map[string]*mirrorWorker, len(job.Mirrors))
	for _, prefix := range job.Mirrors {
		w, err := newMirrorWorker(prefix, job.Suffix, settings)
		if err != nil {
			reporter.Fatal(err.Error())
			return err
		}
		workers[prefix] = w
	}

	for _, w := range workers {
		w := w
		group.Go(func() error {
			if w.probe(groupCtx, status) {
				w.run(groupCtx, work, status, done)
			}
			return nil
		})
	}

	sup := &supervisorState{
		todoMirrors:  make(map[string]struct{}, len(job.Mirrors)),
		aliveMirrors: make(map[string]struct{}, len(job.Mirrors)),
	}
	for _, prefix := range job.Mirrors {
		sup.todoMirrors[prefix] = struct{}{}
		sup.aliveMirrors[prefix] = struct{}{}
	}

	result := sup.loop(ctx, status, work, partialDir, settings, reporter)

	close(done)
	_ = group.Wait()

	if result.fatal != "" {
		reporter.Fatal(result.fatal)
		return pkgerrors.New(result.fatal)
	}

	if err := gatherBlocks(job.Destination, sup.allBlocks); err != nil {
		reporter.Fatal(err.Error())
		return err
	}

	for _, b := range sup.allBlocks {
		os.Remove(b.Path)
	}
	os.Remove(partialDir)

	reporter.Finish()
	return nil
}

// supervisorState is the Supervisor-local run state from §3: size,
// all_blocks, todo (split here into todoMirrors and todoBlocks since Go
// has no natural union type for "Mirror or Block"), and threads (modeled
// implicitly by aliveMirrors plus the errgroup in Download).
type supervisorState struct {
	size      int64
	sizeKnown bool

	allBlocks  []Block
	todoBlocks map[string]struct{}

	todoMirrors  map[string]struct{}
	aliveMirrors map[string]struct{}
}

type loopResult struct {
	fatal string
}

// loop is the Supervisor main loop (§4.4): it drains the status queue with
// a timeout, refreshing the UI on every iteration, until todo is empty or
// a fatal condition is hit.
func (s *supervisorState) loop(ctx context.Context, status *statusQueue, work *workQueue, partialDir string, settings Settings, reporter Reporter) loopResult {
	timeout := settings.statusPollInterval()

	for !s.done() {
		select {
		case <-ctx.Done():
			return loopResult{fatal: ctx.Err().Error()}

		case ev := <-status.ch:
			switch ev.kind {
			case statusSize:
				reporter.ReportSize(ev.mirror, ev.size)
				if !s.sizeKnown {
					s.size = ev.size
					s.sizeKnown = true
					if err := os.MkdirAll(partialDir, 0o755); err != nil {
						return loopResult{fatal: fmt.Sprintf("creating partial directory: %v", err)}
					}
					s.allBlocks = planBlocks(partialDir, ev.size, settings.blockSize())
					s.todoBlocks = make(map[string]struct{}, len(s.allBlocks))
					for _, b := range s.allBlocks {
						s.todoBlocks[b.key()] = struct{}{}
						work.put(b)
					}
				} else if ev.size != s.size {
					return loopResult{fatal: (&sizeMismatchError{want: s.size, got: ev.size}).Error()}
				}
				delete(s.todoMirrors, ev.mirror)

			case statusError:
				reporter.ReportError(ev.mirror, ev.errKind, ev.errDetail)
				delete(s.aliveMirrors, ev.mirror)
				delete(s.todoMirrors, ev.mirror)
				if len(s.aliveMirrors) == 0 {
					return loopResult{fatal: errNoMirrors.Error()}
				}

			case statusProgress:
				reporter.ReportProgress(ev.mirror, ev.progressN)

			case statusBlock:
				reporter.ReportBlock(ev.mirror, ev.block)
				delete(s.todoBlocks, ev.block.key())
			}

			reporter.Refresh()

		case <-time.After(timeout):
			reporter.Refresh()
		}
	}

	return loopResult{}
}

// done reports whether todo (mirrors and blocks combined) is empty, which
// per §3 can only happen with at least one mirror alive and the size
// known, since a mirror is never removed from todoMirrors except by
// reporting size or dying (and dying with none alive is always fatal
// before done() is consulted again).
func (s *supervisorState) done() bool {
	if len(s.todoMirrors) > 0 {
		return false
	}
	if !s.sizeKnown {
		return false
	}
	return len(s.todoBlocks) == 0
}

// gatherBlocks concatenates every block file into destination at its
// planned offset, via the Atomic File Writer (§4.4 "Assembly"). It aborts
// without creating a partial destination if any block's on-disk size
// disagrees with its planned range.
func gatherBlocks(destination string, blocks []Block) error {
	for _, b := range blocks {
		fi, err := os.Stat(b.Path)
		if err != nil {
			return fmt.Errorf("missing block %s: %w", b.Path, err)
		}
		if fi.Size() != b.Range.size() {
			return &blockSizeError{block: b, gotSize: fi.Size()}
		}
	}

	out, err := createFile(destination, 0, 0o444)
	if err != nil {
		return err
	}

	// createFile yields a Writer, not a random-access handle; assembly
	// needs to place each block at its own offset, so write through a
	// plain *os.File opened on the same anonymous-file path is not
	// available here. Instead blocks are copied in index order into a
	// sequential stream, which is equivalent for a contiguous partition
	// (§3: "blocks partition [0, size) contiguously with no gaps or
	// overlaps") — ranged copy_file_range is a Linux-only optimization
	// the original uses; plain sequential io.Copy is the portable
	// equivalent with the same result.
	for _, b := range blocks {
		if err := copyBlockInto(out, b); err != nil {
			out.Discard()
			return err
		}
	}

	return out.Commit()
}

func copyBlockInto(out atomicFile, b Block) error {
	src, err := os.Open(b.Path)
	if err != nil {
		return fmt.Errorf("opening block %s: %w", b.Path, err)
	}
	defer src.Close()

	n, err := io.Copy(out, src)
	if err != nil {
		return fmt.Errorf("copying block %s: %w", b.Path, err)
	}
	if n != b.Range.size() {
		return &blockSizeError{block: b, gotSize: n}
	}
	return nil
}

