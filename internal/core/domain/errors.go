package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceDirInvalid indicates the configured source directory is
	// missing or unreadable. Surfaced before any stage starts.
	ErrSourceDirInvalid = errors.New("source directory invalid")

	// ErrCorruptMetadata indicates the persisted metadata could not be
	// decoded. Recovered by falling back to empty metadata (full
	// re-index), logged as a warning rather than failing the run.
	ErrCorruptMetadata = errors.New("corrupt index metadata")

	// ErrLockHeld indicates another ingestion run holds the collection
	// lock. Concurrent runs against one collection must not interleave.
	ErrLockHeld = errors.New("ingestion lock held by another run")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Fatal to the current run.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not
	// configured or unreachable. Fatal to the current run.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrUnsupportedFile indicates no extractor supports the file.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrExtractionTimeout indicates a single file exceeded the per-file
	// extraction budget. Treated as a per-file failure, not a run failure.
	ErrExtractionTimeout = errors.New("extraction timed out")
)
