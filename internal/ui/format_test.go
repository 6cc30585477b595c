// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package ui

import "testing"

func TestFormatSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0B"},
		{999, "999B"},
		{1_000, "1.0kB"},
		{1_500, "1.5kB"},
		{2_500_000, "2.5MB"},
		{10_000_000, "10MB"},
	}
	for _, c := range cases {
		if got := formatSize(c.n); got != c.want {
			t.Errorf("formatSize(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatSpeed_NothingBeforeOneSecond(t *testing.T) {
	if got := formatSpeed(1_000_000, 0.5); got != "" {
		t.Errorf("expected empty speed before 1s elapsed, got %q", got)
	}
}

func TestFormatSpeed_ZeroBytesIsEmpty(t *testing.T) {
	if got := formatSpeed(0, 5); got != "" {
		t.Errorf("expected empty speed for zero bytes, got %q", got)
	}
}

func TestFormatSpeed_RendersRate(t *testing.T) {
	got := formatSpeed(2_000_000, 2)
	want := "1.0MB/s"
	if got != want {
		t.Errorf("formatSpeed(2_000_000, 2) = %q, want %q", got, want)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight(%q, 5) = %q", "ab", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}
