// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import "testing"

func TestVerificationHostname(t *testing.T) {
	cases := []struct {
		name string
		host string
		want string
	}{
		{"normal DNS name", "images-frontdoor.apps.ocp.ci.centos.org", "images-frontdoor.apps.ocp.ci.centos.org"},
		{"IPv4 literal", "10.29.163.169", verificationHostnameOverride},
		{"IPv6 literal", "fe80::1", verificationHostnameOverride},
		{"single-label hostname", "localhost", "localhost"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := verificationHostname(c.host)
			if got != c.want {
				t.Errorf("verificationHostname(%q) = %q, want %q", c.host, got, c.want)
			}
		})
	}
}

func TestNewTLSConfig_MissingBundleFallsBackToSystemPool(t *testing.T) {
	cfg, err := newTLSConfig("", "example.com")
	if err != nil {
		t.Fatalf("newTLSConfig: %v", err)
	}
	if cfg.RootCAs != nil {
		t.Errorf("expected nil RootCAs (system pool) when no bundle given")
	}
	if cfg.ServerName != "example.com" {
		t.Errorf("expected ServerName example.com, got %q", cfg.ServerName)
	}
}

func TestNewTLSConfig_UnreadableBundleErrors(t *testing.T) {
	if _, err := newTLSConfig("/nonexistent/ca.pem", "example.com"); err == nil {
		t.Error("expected error for unreadable CA bundle")
	}
}

func TestNewTLSConfig_IPLiteralHostGetsOverride(t *testing.T) {
	cfg, err := newTLSConfig("", "10.29.163.169")
	if err != nil {
		t.Fatalf("newTLSConfig: %v", err)
	}
	if cfg.ServerName != verificationHostnameOverride {
		t.Errorf("expected ServerName %q for IP-literal host, got %q", verificationHostnameOverride, cfg.ServerName)
	}
}
