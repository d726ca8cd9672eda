package services

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docdex/internal/core/ports/driving"
	"github.com/custodia-labs/docdex/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last
// filesystem event before triggering a run, so bulk copies coalesce
// into one ingestion pass.
const DefaultDebounce = 2 * time.Second

// Watcher observes the source directory and triggers ingestion runs
// when eligible files change.
type Watcher struct {
	dir        string
	extensions []string
	debounce   time.Duration
	orch       driving.IngestOrchestrator
	log        *logger.Logger
}

// NewWatcher creates a watcher over dir. A zero debounce falls back
// to DefaultDebounce.
func NewWatcher(dir string, extensions []string, debounce time.Duration, orch driving.IngestOrchestrator, log *logger.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:        dir,
		extensions: extensions,
		debounce:   debounce,
		orch:       orch,
		log:        log,
	}
}

// Watch blocks until ctx is cancelled, running an ingestion pass
// after each debounced burst of relevant events. A failed run is
// logged and watching continues.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.log.Info("Watching %s", w.dir)

	// The timer starts stopped; each relevant event rearms it.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("Event: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watch error: %v", err)

		case <-timer.C:
			report, err := w.orch.Run(ctx)
			if err != nil {
				w.log.Warn("Ingestion run failed: %v", err)
				continue
			}
			if report.Added > 0 || report.Deleted > 0 {
				w.log.Info("Run complete: %d added, %d deleted, %d chunks",
					report.Added, report.Deleted, report.ChunksIndexed)
			}
		}
	}
}

// relevant filters out events for files we would never ingest, plus
// pure chmod noise.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	ext := filepath.Ext(event.Name)
	for _, allowed := range w.extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}
