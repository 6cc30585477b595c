// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// mirrorWorker owns one HTTPS mirror end to end: a single connection pool,
// a probe for the artifact's size, and a loop pulling blocks from the
// shared work queue until it is told to stop or it dies (§4.3).
type mirrorWorker struct {
	prefix   string
	suffix   string
	settings Settings
	client   *http.Client
}

func newMirrorWorker(prefix, suffix string, settings Settings) (*mirrorWorker, error) {
	u, err := url.Parse(prefix)
	if err != nil {
		return nil, fmt.Errorf("parsing mirror URL %q: %w", prefix, err)
	}

	tlsConfig, err := newTLSConfig(settings.CABundle, u.Hostname())
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		TLSClientConfig:       tlsConfig,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: settings.requestTimeout(),
	}

	return &mirrorWorker{
		prefix:   prefix,
		suffix:   suffix,
		settings: settings,
		client:   &http.Client{Transport: transport, Timeout: settings.requestTimeout()},
	}, nil
}

// probe issues HEAD and reports the artifact size, or an error, to status.
// It returns false if the worker should not proceed to the work phase.
func (w *mirrorWorker) probe(ctx context.Context, status *statusQueue) (ok bool) {
	target := w.prefix + w.suffix

	resp, err := doWithRetry(ctx, w.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	}, w.settings.requestRetries())
	if err != nil {
		kind, detail := classifyTransportError(err)
		status.put(statusEvent{kind: statusError, mirror: w.prefix, errKind: kind, errDetail: detail})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.put(statusEvent{kind: statusError, mirror: w.prefix, errKind: KindOther, errDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)})
		return false
	}

	if resp.ContentLength < 0 {
		status.put(statusEvent{kind: statusError, mirror: w.prefix, errKind: KindOther, errDetail: "Content-Length not reported"})
		return false
	}

	status.put(statusEvent{kind: statusSize, mirror: w.prefix, size: resp.ContentLength})
	return true
}

// run pulls blocks from work until it is closed (done) or the worker
// decides to terminate. It always re-queues a block it has dequeued but
// not successfully completed before returning (§4.3 invariant, §5:
// "workers must never hold a block from the queue across their own
// termination without re-queueing").
func (w *mirrorWorker) run(ctx context.Context, work *workQueue, status *statusQueue, done <-chan struct{}) {
	target := w.prefix + w.suffix

	for {
		block, ok := work.get(done)
		if !ok {
			return
		}

		if w.completeFromDisk(block, status) {
			continue
		}

		err := w.fetchBlock(ctx, target, block, status)
		if err == nil {
			status.put(statusEvent{kind: statusBlock, mirror: w.prefix, block: block})
			continue
		}

		if isRecoverableMidStream(err) {
			// Read timeout after the body had already started
			// streaming: re-queue and keep this mirror alive
			// (§4.3.d, §7). A failure to establish the GET at all
			// (connect/TLS/retry exhaustion) never reaches here —
			// it isn't wrapped as a midStreamError.
			work.put(block)
			continue
		}

		// Anything else (bad status, connect/TLS failure, GET retry
		// exhaustion, non-timeout mid-stream failure) surrenders the
		// block and kills the mirror.
		work.put(block)
		kind, detail := classifyTransportError(err)
		if de, ok := err.(*downloadStatusError); ok {
			kind, detail = KindOther, de.Error()
		}
		status.put(statusEvent{kind: statusError, mirror: w.prefix, errKind: kind, errDetail: detail})
		return
	}
}

// completeFromDisk implements §4.3 step (a): if another worker (or a
// prior run) already produced this block's file, count its bytes as
// unattributed progress and report the block done without any network
// traffic.
func (w *mirrorWorker) completeFromDisk(block Block, status *statusQueue) bool {
	if _, err := os.Stat(block.Path); err != nil {
		return false
	}
	status.put(statusEvent{kind: statusProgress, mirror: "", progressN: block.Range.size()})
	status.put(statusEvent{kind: statusBlock, mirror: w.prefix, block: block})
	return true
}

// downloadStatusError wraps an unexpected HTTP status on a block GET.
type downloadStatusError struct{ status int }

func (e *downloadStatusError) Error() string { return fmt.Sprintf("HTTP %d", e.status) }

func (w *mirrorWorker) fetchBlock(ctx context.Context, target string, block Block, status *statusQueue) error {
	resp, err := doWithRetry(ctx, w.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", block.Range.Start, block.Range.End-1))
		return req, nil
	}, w.settings.requestRetries())
	if err != nil {
		// The GET itself never succeeded, even after retrying — a
		// connect/handshake/retry-exhaustion failure, not a mid-stream
		// one, so it must not be re-queued as recoverable.
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		return &downloadStatusError{status: resp.StatusCode}
	}

	out, err := createFile(block.Path, block.Range.size(), 0o444)
	if err != nil {
		return err
	}

	var written int64
	buf := make([]byte, 64*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Discard()
				return werr
			}
			written += int64(n)
			status.put(statusEvent{kind: statusProgress, mirror: w.prefix, progressN: int64(n)})
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Discard()
			if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				return &midStreamError{err: ne}
			}
			return rerr
		}
	}

	if written != block.Range.size() {
		out.Discard()
		return fmt.Errorf("short read: got %d bytes, wanted %d", written, block.Range.size())
	}

	return out.Commit()
}
