// Package vectorstore selects and constructs the configured vector
// store backend.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docdex/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/docdex/internal/adapters/driven/vectorstore/pgvector"
	"github.com/custodia-labs/docdex/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/docdex/internal/config"
	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
)

// New builds the vector store named by the configuration. dimensions
// is the embedding vector width, needed by the pgvector backend to
// size its column.
func New(ctx context.Context, cfg *config.Config, dimensions int) (driven.VectorStore, error) {
	switch cfg.VectorStore.Driver {
	case "", "sqlite":
		return sqlite.NewStore(cfg.DataDir, cfg.Collection)

	case "pgvector":
		return pgvector.NewStore(ctx, cfg.VectorStore.DSN, cfg.Collection, dimensions)

	case "memory":
		// Dry runs only: nothing survives the process.
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("%w: unknown vector store driver %q", domain.ErrInvalidInput, cfg.VectorStore.Driver)
	}
}
