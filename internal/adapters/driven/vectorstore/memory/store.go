// Package memory provides an in-memory vector store. Nothing is
// persisted; it serves dry runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store keeps chunks in a map keyed by chunk ID.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{chunks: make(map[string]domain.Chunk)}
}

// DeleteBySource removes every chunk belonging to the given sources.
func (s *Store) DeleteBySource(_ context.Context, sources []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(sources))
	for _, src := range sources {
		drop[src] = true
	}
	for id, chunk := range s.chunks {
		if drop[chunk.Provenance.Source] {
			delete(s.chunks, id)
		}
	}
	return nil
}

// Upsert stores chunks, replacing any with the same ID.
func (s *Store) Upsert(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// BySource returns the chunks for one source, unordered.
func (s *Store) BySource(source string) []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Chunk
	for _, chunk := range s.chunks {
		if chunk.Provenance.Source == source {
			out = append(out, chunk)
		}
	}
	return out
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
