package driven

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// VectorStore is the external indexing collaborator. The core hands it
// deletion keys and chunks; long-term chunk storage is owned by the
// store, not the core.
//
// Upsert must be idempotent: chunk IDs are deterministic, and
// re-upserting an already-present ID must not duplicate it.
type VectorStore interface {
	// DeleteBySource removes all chunks whose provenance source is in
	// sources. Called before Upsert for re-indexed files so a file is
	// never transiently double-covered.
	DeleteBySource(ctx context.Context, sources []string) error

	// Upsert inserts or replaces the given chunks.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
