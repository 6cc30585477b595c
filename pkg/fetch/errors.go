// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"

	pkgerrors "github.com/pkg/errors"
)

// TransportErrorKind distinguishes why a single HTTP round trip failed.
// The source code this package is modeled on ("the original implementation")
// carries exactly this distinction to produce friendlier messages; it must
// never be used to change mirror lifecycle (§9): any of these, once a
// worker gives up retrying, kills the mirror the same way.
type TransportErrorKind int

const (
	// KindOther covers anything not specifically classified below,
	// including non-200/206 HTTP statuses.
	KindOther TransportErrorKind = iota
	// KindTimeout is a connect or read timeout.
	KindTimeout
	// KindConnect is a failure to establish the TCP connection at all
	// (connection refused, no route to host, DNS failure).
	KindConnect
	// KindTLS is a certificate verification failure.
	KindTLS
)

func (k TransportErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnect:
		return "connection failed"
	case KindTLS:
		return "certificate error"
	default:
		return "error"
	}
}

// classifyTransportError inspects err (as returned by http.Client.Do) and
// reports what kind of transport failure it was, plus a short human
// message. It never classifies an HTTP status code — that happens at the
// call site where the status is known.
func classifyTransportError(err error) (TransportErrorKind, string) {
	if err == nil {
		return KindOther, ""
	}

	var tlsErr *tls.CertificateVerificationError
	if errors.As(err, &tlsErr) {
		return KindTLS, "certificate error: " + tlsErr.Error()
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return KindTimeout, "connection timeout"
		}
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			if opErr.Op == "dial" {
				return KindConnect, opErr.Err.Error()
			}
		}
		if errors.Is(urlErr.Err, context.DeadlineExceeded) {
			return KindTimeout, "connection timeout"
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, "connection timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout, "connection timeout"
	}

	return KindOther, "unknown error: " + err.Error()
}

// midStreamError marks a failure that occurred while reading the body of
// a response for which a 206 had already been received. Only an error
// wrapped in this type is eligible for the mid-stream re-queue path
// (§4.3.d, §7): a failure to establish the GET itself — including one
// that exhausted fetchBlock's own retry budget — is a pre-stream failure
// no matter what classifyTransportError would call it, and must kill the
// mirror like any other request failure.
type midStreamError struct {
	err error
}

func (e *midStreamError) Error() string { return e.err.Error() }
func (e *midStreamError) Unwrap() error { return e.err }

// isRecoverableMidStream reports whether err is a read timeout that
// occurred while streaming an in-flight block's body — the only
// condition that re-queues a block without killing the mirror (§4.3.d,
// §7). Any other mid-stream failure, or any failure before the body
// started streaming, surrenders the block and kills the mirror via the
// normal "error" status event.
func isRecoverableMidStream(err error) bool {
	var mid *midStreamError
	if !errors.As(err, &mid) {
		return false
	}
	kind, _ := classifyTransportError(mid.err)
	return kind == KindTimeout
}

// sizeMismatchError is returned by the supervisor when a second mirror
// reports a different size than the first one did.
type sizeMismatchError struct {
	want, got int64
}

func (e *sizeMismatchError) Error() string {
	return fmt.Sprintf("inconsistent size: expected %d, got %d", e.want, e.got)
}

// errNoMirrors carries the fatal message used when every mirror has died
// without ever producing a complete download.
var errNoMirrors = pkgerrors.New("unable to download file from any host")

// blockSizeError is returned by assembly when a staged block file's size
// does not match its planned range, which would make concatenation unsafe.
type blockSizeError struct {
	block    Block
	gotSize  int64
}

func (e *blockSizeError) Error() string {
	return fmt.Sprintf("block %s: expected %d bytes, found %d", e.block.Path, e.block.Range.size(), e.gotSize)
}
