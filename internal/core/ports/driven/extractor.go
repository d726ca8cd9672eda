package driven

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// Extractor turns one source file into tagged content units.
// Each extractor handles one content aspect (page text, tables, OCR'd
// images, chart captions); several extractors typically run over the
// same file.
type Extractor interface {
	// Name returns the extractor name for logging.
	Name() string

	// Supports reports whether this extractor can handle the file.
	// Dispatch is by file extension.
	Supports(path string) bool

	// Extract returns the content units found in the file. A file with
	// none of this extractor's content (e.g. a PDF with no embedded
	// images for the OCR extractor) yields zero units, not an error.
	Extract(ctx context.Context, path string) ([]domain.ContentUnit, error)
}

// ExtractorRegistry fans a file out to every extractor that supports it.
type ExtractorRegistry interface {
	// Register adds an extractor to the registry.
	Register(e Extractor)

	// ExtractFile runs all supporting extractors over the file and
	// returns the combined units. Returns domain.ErrUnsupportedFile if
	// no extractor supports the file.
	ExtractFile(ctx context.Context, path string) ([]domain.ContentUnit, error)
}
