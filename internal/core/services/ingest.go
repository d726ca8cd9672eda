package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/core/ports/driving"
	"github.com/custodia-labs/docdex/internal/logger"
)

const embedBatchSize = 64

// Orchestrator runs a full ingestion pass: detect changes, extract,
// chunk, embed, index, persist metadata. It implements
// driving.IngestOrchestrator.
type Orchestrator struct {
	sourceDir   string
	collection  string
	workers     int
	fileTimeout time.Duration

	meta     driven.MetadataStore
	lock     driven.RunLock
	detector *ChangeDetector
	registry driven.ExtractorRegistry
	splitter driven.ChunkSplitter
	embedder driven.EmbeddingService
	store    driven.VectorStore
	log      *logger.Logger

	mu     sync.Mutex
	status driving.IngestStatus
}

// OrchestratorConfig carries the run parameters and collaborators for
// an Orchestrator.
type OrchestratorConfig struct {
	SourceDir   string
	Collection  string
	Workers     int
	FileTimeout time.Duration

	Metadata driven.MetadataStore
	Lock     driven.RunLock
	Detector *ChangeDetector
	Registry driven.ExtractorRegistry
	Splitter driven.ChunkSplitter
	Embedder driven.EmbeddingService
	Store    driven.VectorStore
	Logger   *logger.Logger
}

// NewOrchestrator creates an ingestion orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		sourceDir:   cfg.SourceDir,
		collection:  cfg.Collection,
		workers:     workers,
		fileTimeout: cfg.FileTimeout,
		meta:        cfg.Metadata,
		lock:        cfg.Lock,
		detector:    cfg.Detector,
		registry:    cfg.Registry,
		splitter:    cfg.Splitter,
		embedder:    cfg.Embedder,
		store:       cfg.Store,
		log:         log,
		status:      driving.IngestStatus{Stage: driving.StageIdle},
	}
}

// Status returns a snapshot of the current run state.
func (o *Orchestrator) Status() *driving.IngestStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.status
	return &s
}

func (o *Orchestrator) setStage(stage driving.Stage) {
	o.mu.Lock()
	o.status.Stage = stage
	o.status.Running = stage != driving.StageIdle
	o.mu.Unlock()
}

func (o *Orchestrator) fileDone(failed bool) {
	o.mu.Lock()
	o.status.FilesProcessed++
	if failed {
		o.status.ErrorCount++
	}
	o.mu.Unlock()
}

// Run executes one ingestion pass. Metadata is only written after
// the vector store has been updated, so an aborted run leaves the
// persisted state untouched and the next run reproduces the same
// change set.
func (o *Orchestrator) Run(ctx context.Context) (*driving.IngestReport, error) {
	started := time.Now()

	o.mu.Lock()
	o.status = driving.IngestStatus{Stage: driving.StageDetecting, Running: true}
	o.mu.Unlock()
	defer o.setStage(driving.StageIdle)

	meta, err := o.meta.Load(ctx, o.collection)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	changes, err := o.detector.Detect(ctx, o.sourceDir, meta)
	if err != nil {
		return nil, fmt.Errorf("detect changes: %w", err)
	}

	report := &driving.IngestReport{
		Added:   len(changes.Added),
		Deleted: len(changes.Deleted),
	}

	if changes.Empty() {
		o.log.Info("No changes detected, nothing to do")
		report.Duration = time.Since(started)
		return report, nil
	}

	release, err := o.lock.Acquire(ctx, o.collection)
	if err != nil {
		return nil, err
	}
	defer release()

	o.setStage(driving.StageExtracting)
	results := o.extractAll(ctx, changes.Added)

	var units []domain.ContentUnit
	extracted := make(map[string]bool, len(results))
	for _, res := range results {
		if res.Failed() {
			report.FilesFailed = append(report.FilesFailed, res.File)
			o.log.Warn("Extraction failed for %s: %v", res.File, res.Err)
			continue
		}
		extracted[res.File] = true
		units = append(units, res.Units...)
	}
	report.UnitsExtracted = len(units)

	o.setStage(driving.StageChunking)
	chunks, err := o.splitter.Split(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("chunk content: %w", err)
	}

	o.setStage(driving.StageIndexing)

	// A modified file that failed re-extraction keeps its old chunks
	// and old fingerprint; it is retried on the next run. Files gone
	// from disk are always evicted.
	var evict []string
	for _, name := range changes.Deleted {
		_, onDisk := changes.Fingerprints[name]
		if onDisk && !extracted[name] {
			continue
		}
		evict = append(evict, name)
	}

	if err := o.index(ctx, evict, chunks); err != nil {
		return nil, err
	}
	report.ChunksIndexed = len(chunks)

	o.setStage(driving.StagePersisting)
	next := o.nextMetadata(meta, changes, extracted, evict)
	if err := o.meta.Save(ctx, o.collection, next); err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}

	report.Duration = time.Since(started)
	o.log.Info("Ingested %d files (%d chunks, %d failed) in %s",
		len(extracted), len(chunks), len(report.FilesFailed), report.Duration.Round(time.Millisecond))
	return report, nil
}

// extractAll runs extraction for the named files with a bounded
// worker pool. Per-file failures are captured in the results, never
// returned as an error.
func (o *Orchestrator) extractAll(ctx context.Context, names []string) []domain.FileResult {
	results := make([]domain.FileResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, name := range names {
		g.Go(func() error {
			fctx := gctx
			if o.fileTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(gctx, o.fileTimeout)
				defer cancel()
			}

			path := filepath.Join(o.sourceDir, filepath.FromSlash(name))
			units, err := o.registry.ExtractFile(fctx, path)
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %s", domain.ErrExtractionTimeout, name)
			}
			if err == nil {
				// Extractors report the base file name; provenance and
				// vector store keys use the canonical collection name.
				for j := range units {
					units[j].Provenance.Source = name
				}
			}
			results[i] = domain.FileResult{File: name, Units: units, Err: err}
			o.fileDone(err != nil)
			return nil
		})
	}
	// Workers report per-file failures through results, never through
	// the group error.
	_ = g.Wait()

	return results
}

// index applies deletions before insertions so a modified file never
// ends up with stale and fresh chunks at the same time.
func (o *Orchestrator) index(ctx context.Context, evict []string, chunks []domain.Chunk) error {
	if len(evict) > 0 {
		if err := o.store.DeleteBySource(ctx, evict); err != nil {
			return fmt.Errorf("%w: delete: %v", domain.ErrVectorStoreUnavailable, err)
		}
	}

	if len(chunks) == 0 {
		return nil
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		vectors, err := o.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("%w: got %d vectors for %d chunks",
				domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
		}
		for i := range batch {
			batch[i].Embedding = vectors[i]
		}
	}

	if err := o.store.Upsert(ctx, chunks); err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// nextMetadata builds the post-run metadata: evicted names removed,
// successfully extracted files stamped with their new fingerprint,
// unchanged files refreshed so modification time drift converges.
func (o *Orchestrator) nextMetadata(
	meta *domain.IndexMetadata,
	changes domain.ChangeSet,
	extracted map[string]bool,
	evict []string,
) *domain.IndexMetadata {
	next := meta.Clone()

	for _, name := range evict {
		delete(next.Files, name)
	}

	added := make(map[string]bool, len(changes.Added))
	for _, name := range changes.Added {
		added[name] = true
	}

	for name, fp := range changes.Fingerprints {
		if added[name] {
			if extracted[name] {
				next.Files[name] = fp
			}
			continue
		}
		// Unchanged content, possibly a newer mtime.
		if _, known := next.Files[name]; known {
			next.Files[name] = fp
		}
	}

	return next
}
