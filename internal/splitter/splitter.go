// Package splitter provides the content-type-aware chunking engine.
// Each content type has its own splitting strategy; table content is
// never split mid-row, plain text splits at natural boundaries.
package splitter

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Splitter implements the interface.
var _ driven.ChunkSplitter = (*Splitter)(nil)

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap between consecutive text chunks.
const DefaultChunkOverlap = 200

// chunkNamespace is the UUIDv5 namespace for deterministic chunk IDs.
// A chunk's ID is a pure function of its provenance and position, so
// re-upserting after a retried run replaces rather than duplicates.
var chunkNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// splitFunc produces the chunk bodies for one content unit's text.
type splitFunc func(s *Splitter, text string) []string

// strategies maps every content type to its splitting strategy.
// The set is closed; TestStrategies_CoverAllContentTypes enforces that
// a new content type cannot ship without an entry here.
var strategies = map[domain.ContentType]splitFunc{
	domain.ContentText:       (*Splitter).splitText,
	domain.ContentTable:      (*Splitter).splitTable,
	domain.ContentOCR:        (*Splitter).splitText,
	domain.ContentChart:      (*Splitter).splitText,
	domain.ContentStructured: (*Splitter).splitText,
}

// Splitter splits tagged content units into retrieval-sized chunks.
type Splitter struct {
	chunkSize int
	overlap   int
	log       *logger.Logger
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive text chunks.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithLogger sets the logger handle.
func WithLogger(log *logger.Logger) Option {
	return func(s *Splitter) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		log:       logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split chunks the given units. Chunks from one unit are contiguous,
// positioned 0..n-1, and each inherits the unit's full provenance plus
// a deterministic context header prefix.
func (s *Splitter) Split(ctx context.Context, units []domain.ContentUnit) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	// Several units can share one provenance tuple, e.g. two table
	// regions or two captions on the same page. The ID ordinal runs
	// across the whole call so their chunk IDs never collide.
	ordinals := make(map[string]int)

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		strategy, ok := strategies[unit.Provenance.Type]
		if !ok {
			return nil, fmt.Errorf("%w: content type %q", domain.ErrInvalidInput, unit.Provenance.Type)
		}

		bodies := strategy(s, unit.Text)
		if len(bodies) > 1 {
			s.log.Debug("Split %s unit from %s page %d into %d chunks",
				unit.Provenance.Type, unit.Provenance.Source, unit.Provenance.Page, len(bodies))
		}

		header := contextHeader(unit.Provenance)
		key := provenanceKey(unit.Provenance)
		for i, body := range bodies {
			chunks = append(chunks, domain.Chunk{
				ID:         chunkID(key, ordinals[key]),
				Text:       header + body,
				Position:   i,
				Provenance: unit.Provenance,
			})
			ordinals[key]++
		}
	}

	return chunks, nil
}

// contextHeader builds the deterministic chunk prefix, e.g.
// "[Table from report.pdf, page 3] ". A retriever can disambiguate
// chunk provenance from content alone, independent of metadata fields.
func contextHeader(p domain.Provenance) string {
	if p.Page > 0 {
		return fmt.Sprintf("[%s from %s, page %d] ", p.Type.ContextLabel(), p.Source, p.Page)
	}
	return fmt.Sprintf("[%s from %s] ", p.Type.ContextLabel(), p.Source)
}

// provenanceKey identifies the provenance tuple a chunk belongs to.
func provenanceKey(p domain.Provenance) string {
	return fmt.Sprintf("%s|%d|%s", p.Source, p.Page, p.Type)
}

// chunkID derives a stable UUIDv5 from the provenance tuple and the
// chunk's ordinal within it.
func chunkID(key string, ordinal int) string {
	name := fmt.Sprintf("%s|%d", key, ordinal)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}
