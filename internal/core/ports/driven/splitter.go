package driven

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// ChunkSplitter turns content units into retrieval-sized chunks,
// applying a content-type-aware splitting strategy and injecting a
// deterministic context header per chunk. Every output chunk carries
// the provenance of its originating unit.
type ChunkSplitter interface {
	// Split chunks the given units. Order is preserved: chunks from one
	// unit are contiguous and positioned 0..n-1 within that unit.
	Split(ctx context.Context, units []domain.ContentUnit) ([]domain.Chunk, error)
}
