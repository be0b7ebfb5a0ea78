package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// PlainRenderer writes one line per progress event (for CI and pipes).
type PlainRenderer struct {
	mu    sync.Mutex
	out   io.Writer
	stage Stage
	last  int // last percentage bucket printed for the stage
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{out: cfg.Output, stage: -1, last: -1}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer.
// Page-level events are thinned to one line per 10% so large books do not
// flood the log.
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.stage {
		r.stage = event.Stage
		r.last = -1
	}

	if event.Total > 0 {
		bucket := event.Current * 10 / event.Total
		if bucket == r.last && event.Current != event.Total {
			return
		}
		r.last = bucket
		_, _ = fmt.Fprintf(r.out, "[%s] %d/%d - %s\n", event.Stage.Icon(), event.Current, event.Total, event.Message)
		return
	}
	if event.Message != "" {
		_, _ = fmt.Fprintf(r.out, "[%s] %s\n", event.Stage.Icon(), event.Message)
	}
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "[%s] %d entries from %d pages in %s",
		StageComplete.Icon(), stats.Entries, stats.Pages, stats.Duration.Round(time.Millisecond))
	if stats.WordsSource != "" {
		_, _ = fmt.Fprintf(r.out, " (words: %s)", stats.WordsSource)
	}
	_, _ = fmt.Fprintln(r.out)
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}

var _ Renderer = (*PlainRenderer)(nil)
