// Package driving provides interfaces for primary/inbound ports.
package driving

import (
	"context"
	"time"
)

// Stage identifies where an ingestion run currently is. A run moves
// strictly forward: Idle → Detecting → Extracting → Chunking →
// Indexing → Persisting → Idle.
type Stage string

// Ingestion run stages.
const (
	StageIdle       Stage = "idle"
	StageDetecting  Stage = "detecting"
	StageExtracting Stage = "extracting"
	StageChunking   Stage = "chunking"
	StageIndexing   Stage = "indexing"
	StagePersisting Stage = "persisting"
)

// IngestOrchestrator drives one incremental ingestion run.
type IngestOrchestrator interface {
	// Run executes a full ingestion pass: detect changes, extract
	// changed files, chunk, index, persist metadata. An empty change
	// set is a successful no-op run.
	Run(ctx context.Context) (*IngestReport, error)

	// Status returns the current run status. Safe for concurrent use.
	Status() *IngestStatus
}

// IngestReport summarises a completed run.
type IngestReport struct {
	// Added is the number of added or modified files processed.
	Added int

	// Deleted is the number of deletion keys handed to the vector store.
	Deleted int

	// UnitsExtracted is the total content units across processed files.
	UnitsExtracted int

	// ChunksIndexed is the number of chunks upserted this run.
	ChunksIndexed int

	// FilesFailed lists files skipped due to per-file extraction errors.
	// They remain unfingerprinted and are retried on the next run.
	FilesFailed []string

	// Duration is the wall time of the run.
	Duration time.Duration
}

// IngestStatus is a point-in-time view of an active run.
type IngestStatus struct {
	// Stage is the stage the run is currently in.
	Stage Stage

	// Running is true while a run is in progress.
	Running bool

	// FilesProcessed counts files extracted so far this run.
	FilesProcessed int

	// ErrorCount counts per-file failures so far this run.
	ErrorCount int
}
