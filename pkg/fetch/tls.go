// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
)

// verificationHostnameOverride is the fixed TLS ServerName substituted for
// mirror hosts that are IP literals (IPv4 or IPv6), since certificates for
// such mirrors are not issued against the literal address. This mirrors
// CockpitManager.connection_from_context in the original implementation.
const verificationHostnameOverride = "cockpit-tests"

// verificationHostname returns the TLS verification name to use for the
// given connection host: the host itself, unless it looks like an IP
// literal, in which case verificationHostnameOverride is used instead.
//
// A host is treated as an IP literal if it contains a ':' (IPv6) or
// contains no alphabetic characters at all (IPv4 dotted-decimal) — the
// same heuristic as the original implementation, which deliberately does
// not use net.ParseIP so that unusual notations are still caught.
func verificationHostname(host string) string {
	if strings.Contains(host, ":") {
		return verificationHostnameOverride
	}
	for _, r := range host {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return host
		}
	}
	return verificationHostnameOverride
}

// newTLSConfig builds a *tls.Config trusting only caBundle (a PEM file),
// or the system certificate pool when caBundle is empty, with ServerName overridden per host via verificationHostname. Because
// Go's tls.Config.ServerName is fixed per-config rather than resolved
// per-dial, one *tls.Config (and therefore one http.Transport) is built
// per mirror host, matching the "one connection pool per mirror" data
// model (§3).
func newTLSConfig(caBundle, host string) (*tls.Config, error) {
	pool := x509.NewCertPool()
	if caBundle != "" {
		pem, err := os.ReadFile(caBundle)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle: %w", err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA bundle %s", caBundle)
		}
	} else {
		pool = nil // fall back to the system pool
	}

	return &tls.Config{
		RootCAs:    pool,
		ServerName: verificationHostname(host),
		MinVersion: tls.VersionTLS12,
	}, nil
}
