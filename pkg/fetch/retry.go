// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

// doWithRetry issues req up to 1+retries times, retrying only on
// classified-retryable transport failures (connect/timeout/TLS) — never
// on a non-2xx/206 HTTP status, which is the caller's job to interpret
// (§4.3, §7). The returned error, if any, is whatever the last attempt
// produced.
//
// This is the Go-idiomatic equivalent of urllib3's PoolManager(retries=1)
// in the original implementation: a small, bounded retry budget enforced
// at the HTTP layer rather than inside the worker's own block loop.
func doWithRetry(ctx context.Context, client *http.Client, newReq func() (*http.Request, error), retries int) (*http.Response, error) {
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(0), uint64(retries))
	policy = backoff.WithContext(policy, ctx)

	var resp *http.Response
	err := backoff.Retry(func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(err)
		}
		r, err := client.Do(req)
		if err != nil {
			if !isRetryableTransportError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}, policy)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

func isRetryableTransportError(err error) bool {
	kind, _ := classifyTransportError(err)
	return kind == KindTimeout || kind == KindConnect || kind == KindTLS
}
