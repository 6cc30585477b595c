// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package cli wires the ambient concerns (argument parsing, mirror list,
// CA bundle, progress reporter selection) around pkg/fetch.Download. None
// of this lives in pkg/fetch itself: the core never reads argv or the
// environment (SPEC_FULL.md §2.1).
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cockpit-project/imgfetch/internal/ui"
	"github.com/cockpit-project/imgfetch/internal/xdg"
	"github.com/cockpit-project/imgfetch/pkg/fetch"
)

// Execute runs the CLI with the given version string.
func Execute(version string) error {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := &cobra.Command{
		Use:           "imgfetch DESTINATION",
		Short:         "Fetch a disk image from redundant HTTPS mirrors in parallel blocks",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, args[0])
		},
	}
	root.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// run resolves the mirror list and CA bundle, picks a reporter, and hands
// off to fetch.Download. The CLI takes exactly one positional argument —
// the destination path — and no flags (§6).
func run(ctx context.Context, destination string) error {
	configPath := xdg.ConfigHome("IMGFETCH_CONFIG", "imgfetch", "imgfetch.json")
	mirrors, err := loadMirrors(configPath)
	if err != nil {
		return fmt.Errorf("loading mirror config: %w", err)
	}

	caBundle, err := resolveCABundle(xdgCABundleOverride())
	if err != nil {
		return fmt.Errorf("resolving CA bundle: %w", err)
	}

	job := fetch.Job{
		Destination: destination,
		Mirrors:     mirrors,
		Suffix:      filepath.Base(destination),
	}
	settings := fetch.DefaultSettings()
	settings.CABundle = caBundle

	reporter := ui.Select(os.Stdout)

	return fetch.Download(ctx, job, settings, reporter)
}

// xdgCABundleOverride looks for a CA bundle resolved through the
// standard XDG config directory; an empty result falls back to a ca.pem
// placed next to the running executable.
func xdgCABundleOverride() string {
	candidate := xdg.ConfigHome("IMGFETCH_CA_BUNDLE", "imgfetch", "ca.pem")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
