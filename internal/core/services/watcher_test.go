package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/ports/driving"
	"github.com/custodia-labs/docdex/internal/logger"
)

// countingOrchestrator implements driving.IngestOrchestrator and
// signals every run.
type countingOrchestrator struct {
	runs atomic.Int32
	ran  chan struct{}
}

func newCountingOrchestrator() *countingOrchestrator {
	return &countingOrchestrator{ran: make(chan struct{}, 16)}
}

func (c *countingOrchestrator) Run(_ context.Context) (*driving.IngestReport, error) {
	c.runs.Add(1)
	c.ran <- struct{}{}
	return &driving.IngestReport{}, nil
}

func (c *countingOrchestrator) Status() *driving.IngestStatus {
	return &driving.IngestStatus{Stage: driving.StageIdle}
}

func TestWatcher(t *testing.T) {
	t.Run("triggers a run after a debounced write", func(t *testing.T) {
		dir := t.TempDir()
		orch := newCountingOrchestrator()
		w := NewWatcher(dir, []string{".txt"}, 50*time.Millisecond, orch, logger.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx) }()

		// Give the watcher a moment to register before writing.
		time.Sleep(100 * time.Millisecond)
		writeFile(t, dir, "a.txt", "hello")

		select {
		case <-orch.ran:
		case <-time.After(5 * time.Second):
			t.Fatal("expected an ingestion run after the write")
		}

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("coalesces a burst of writes into one run", func(t *testing.T) {
		dir := t.TempDir()
		orch := newCountingOrchestrator()
		w := NewWatcher(dir, []string{".txt"}, 200*time.Millisecond, orch, logger.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = w.Watch(ctx) }()

		time.Sleep(100 * time.Millisecond)
		for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
			writeFile(t, dir, name, "content")
			time.Sleep(20 * time.Millisecond)
		}

		select {
		case <-orch.ran:
		case <-time.After(5 * time.Second):
			t.Fatal("expected an ingestion run after the burst")
		}
		// The burst fell inside one debounce window.
		time.Sleep(400 * time.Millisecond)
		assert.Equal(t, int32(1), orch.runs.Load())
	})

	t.Run("fails on a missing directory", func(t *testing.T) {
		w := NewWatcher("/nonexistent/docs", []string{".txt"}, time.Second, newCountingOrchestrator(), logger.Nop())

		err := w.Watch(context.Background())
		require.Error(t, err)
	})

	t.Run("ignores irrelevant events", func(t *testing.T) {
		w := NewWatcher(t.TempDir(), []string{".pdf"}, time.Second, newCountingOrchestrator(), logger.Nop())

		assert.True(t, w.relevant(fsnotify.Event{Name: "report.pdf", Op: fsnotify.Create}))
		assert.True(t, w.relevant(fsnotify.Event{Name: "REPORT.PDF", Op: fsnotify.Write}))
		assert.False(t, w.relevant(fsnotify.Event{Name: "report.tmp", Op: fsnotify.Create}))
		assert.False(t, w.relevant(fsnotify.Event{Name: "report.pdf", Op: fsnotify.Chmod}))
	})
}
