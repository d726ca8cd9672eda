package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry fans one file out to every registered extractor that
// supports it and combines their content units.
type Registry struct {
	extractors []driven.Extractor
	log        *logger.Logger
}

// NewRegistry creates an empty extractor registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log}
}

// Register adds an extractor. Extractors run in registration order.
func (r *Registry) Register(e driven.Extractor) {
	r.extractors = append(r.extractors, e)
}

// ExtractFile runs all supporting extractors over the file. Any
// extractor error fails the file as a whole; the caller records it as
// a per-file failure without aborting the batch.
func (r *Registry) ExtractFile(ctx context.Context, path string) ([]domain.ContentUnit, error) {
	supported := false
	var units []domain.ContentUnit

	for _, e := range r.extractors {
		if !e.Supports(path) {
			continue
		}
		supported = true

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		extracted, err := e.Extract(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		r.log.Debug("Extractor %s produced %d units from %s",
			e.Name(), len(extracted), filepath.Base(path))
		units = append(units, extracted...)
	}

	if !supported {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, filepath.Base(path))
	}
	return units, nil
}

// HasExtension reports whether path's extension matches any of exts
// (case-insensitive, each ext including the leading dot).
func HasExtension(path string, exts ...string) bool {
	got := filepath.Ext(path)
	for _, ext := range exts {
		if strings.EqualFold(got, ext) {
			return true
		}
	}
	return false
}
