package driven

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// MetadataStore persists index metadata per collection and computes
// file fingerprints.
type MetadataStore interface {
	// Load reads persisted metadata for a collection. A missing file
	// yields empty metadata, not an error: first run is a normal state.
	// Corrupt metadata is logged and also yields empty metadata,
	// triggering full re-indexing (correctness over efficiency).
	Load(ctx context.Context, collection string) (*domain.IndexMetadata, error)

	// Save atomically writes metadata for a collection. A partially
	// written file must never be visible to concurrent readers
	// (write-to-temp-then-rename discipline).
	Save(ctx context.Context, collection string, meta *domain.IndexMetadata) error

	// Fingerprint computes size, modification time, content hash and a
	// best-effort page count for the file at path. A failed page count
	// is recorded as unknown and never aborts fingerprinting.
	Fingerprint(ctx context.Context, path string) (domain.FileFingerprint, error)
}

// RunLock provides mutual exclusion between ingestion runs against the
// same collection.
type RunLock interface {
	// Acquire takes the lock for a collection, returning a release
	// function. Returns domain.ErrLockHeld if another run holds it.
	Acquire(ctx context.Context, collection string) (release func(), err error)
}
