// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/cockpit-project/imgfetch/pkg/fetch"
)

// fancyReporter is a TTY-aware fetch.Reporter: one progress bar per mirror
// plus an overall bar, redrawn by pb/v3's pool renderer. It is the Go
// equivalent of the original implementation's FancyUI and of the teacher's
// hand-rolled internal/tui.LiveRenderer, but draws through
// github.com/cheggaaa/pb/v3 instead of hand-written ANSI escapes.
type fancyReporter struct {
	mu        sync.Mutex
	start     time.Time
	size      int64
	overall   *pb.ProgressBar
	bars      map[string]*pb.ProgressBar
	pool      *pb.Pool
	errored   map[string]bool
	termState *term.State
}

// NewFancy builds a Reporter that renders live progress bars to the
// terminal.
func NewFancy() fetch.Reporter {
	return &fancyReporter{
		bars:    make(map[string]*pb.ProgressBar),
		errored: make(map[string]bool),
	}
}

func (r *fancyReporter) Start(mirrors []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.start = time.Now()

	// The original implementation disables terminal echo for the
	// duration of the fancy UI so stray input doesn't corrupt the
	// redrawn bars; term.MakeRaw/term.Restore is the portable
	// equivalent of its direct termios.tcsetattr manipulation.
	if state, err := term.GetState(int(os.Stdout.Fd())); err == nil {
		r.termState = state
		term.MakeRaw(int(os.Stdout.Fd()))
	}

	r.overall = pb.New64(0).SetTemplateString(
		`{{ green "total" }} {{counters . }} {{ bar . }} {{percent . }} {{speed . }}`,
	)

	// Align every mirror's legend to the width of the longest name, the
	// same role self.prefixlen plays in the original's FancyUI.
	labelWidth := 0
	for _, m := range mirrors {
		if n := len(shortName(m)); n > labelWidth {
			labelWidth = n
		}
	}

	bars := []*pb.ProgressBar{r.overall}
	for _, m := range mirrors {
		label := padRight(shortName(m), labelWidth)
		bar := pb.New64(0).SetTemplateString(
			fmt.Sprintf(`%s {{counters . }} {{ bar . }} {{percent . }}`, color.CyanString(label)),
		)
		r.bars[m] = bar
		bars = append(bars, bar)
	}

	pool, err := pb.StartPool(bars...)
	if err != nil {
		// Not a terminal after all, or pb couldn't start; fall back to
		// inert bars so the run still proceeds correctly, just silently.
		pool = nil
	}
	r.pool = pool
}

// restoreTerm puts the terminal back the way Start found it. Called from
// both Fatal and Finish, exactly one of which is invoked per run.
func (r *fancyReporter) restoreTerm() {
	if r.termState != nil {
		term.Restore(int(os.Stdout.Fd()), r.termState)
		r.termState = nil
	}
}

func (r *fancyReporter) ReportSize(mirror string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size == 0 {
		r.size = size
		r.overall.SetTotal(size)
	}
	if bar, ok := r.bars[mirror]; ok {
		bar.SetTotal(size)
	}
}

func (r *fancyReporter) ReportError(mirror string, kind fetch.TransportErrorKind, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errored[mirror] = true
	if bar, ok := r.bars[mirror]; ok {
		bar.Finish()
		delete(r.bars, mirror)
	}
	fmt.Fprintln(os.Stderr, color.RedString("%s: %s: %s", shortName(mirror), kind, detail))
}

func (r *fancyReporter) ReportProgress(mirror string, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overall.Add64(n)
	if mirror != "" {
		if bar, ok := r.bars[mirror]; ok {
			bar.Add64(n)
		}
	}
}

func (r *fancyReporter) ReportBlock(mirror string, block fetch.Block) {}

func (r *fancyReporter) Refresh() {}

func (r *fancyReporter) Fatal(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		r.pool.Stop()
	}
	r.restoreTerm()
	fmt.Fprintln(os.Stderr, color.RedString("fatal: %s", msg))
}

func (r *fancyReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		r.pool.Stop()
	}
	r.restoreTerm()
	fmt.Println(color.GreenString("download complete"))
}

// shortName trims a mirror URL down to just its host, for compact display.
func shortName(mirror string) string {
	s := mirror
	for _, prefix := range []string{"https://", "http://"} {
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			s = s[len(prefix):]
			break
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i]
		}
	}
	return s
}
