// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"strings"
)

// formatSize renders n bytes as an SI-prefixed string, modelled on
// format_size() in the original implementation. The whole part is
// truncated; when it is a single digit and a prefix applies, one decimal
// place is shown instead, rounded to the nearest tenth.
func formatSize(n int64) string {
	units := []string{"", "k", "M", "G", "T", "P"}
	f := float64(n)
	idx := 0
	for f >= 1000 && idx < len(units)-1 {
		f /= 1000
		idx++
	}
	whole := int64(f)
	if whole < 10 && idx > 0 {
		return fmt.Sprintf("%.1f%sB", f, units[idx])
	}
	return fmt.Sprintf("%d%sB", int64(f), units[idx])
}

// formatSpeed renders a transfer rate, or "" if there is nothing
// meaningful to show yet (matching format_speed()'s guard on elapsed<1s).
func formatSpeed(n int64, elapsedSeconds float64) string {
	if elapsedSeconds < 1 || n == 0 {
		return ""
	}
	return formatSize(int64(float64(n)/elapsedSeconds)) + "/s"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
