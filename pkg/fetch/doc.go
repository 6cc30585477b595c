// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

/*
Package fetch implements a multi-source, block-parallel downloader.

A single artifact is fetched from a set of redundant HTTPS mirrors
simultaneously. The artifact is split into fixed-size (1 MiB) blocks, and
every mirror that responds pulls blocks from a shared work queue until the
artifact is complete. A mirror that fails simply drops out; the run only
fails if every mirror dies, or if mirrors disagree about the artifact size.

# Quick Start

	settings := fetch.DefaultSettings()
	settings.CABundle = "/etc/imgfetch/ca.pem"

	err := fetch.Download(ctx, fetch.Job{
		Destination: "/var/tmp/image.qcow2",
		Mirrors: []string{
			"https://mirror-a.example.com/",
			"https://mirror-b.example.com/",
		},
		Suffix: "image.qcow2",
	}, settings, reporter)

# Progress Reporter

Download never touches a terminal, a logfile, or any other UI concern
directly. It reports everything through the Reporter interface (see
reporter.go); two implementations live in package internal/ui.

# Non-goals

This package does not resume downloads across process restarts, does not
verify content against a checksum, and does not do authentication beyond
validating the mirror's TLS certificate against a supplied CA bundle.
*/
package fetch
