// Package doctext extracts text from non-PDF document formats via
// docconv (docx, html, rtf and friends). Plain text and markdown are
// read directly.
package doctext

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/extractors"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// plainExtensions are read directly without conversion.
var plainExtensions = []string{".txt", ".md"}

// convertExtensions go through docconv.
var convertExtensions = []string{".docx", ".doc", ".html", ".rtf", ".odt"}

// Extractor handles non-PDF document formats as single text units.
type Extractor struct {
	log *logger.Logger
}

// New creates a document text extractor.
func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "doctext"
}

// Supports reports whether this extractor handles the file.
func (e *Extractor) Supports(path string) bool {
	return extractors.HasExtension(path, append(append([]string{}, plainExtensions...), convertExtensions...)...)
}

// Extract returns the file content as one text unit. Formats without
// page structure report page 1.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.ContentUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	if extractors.HasExtension(path, plainExtensions...) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text = string(data)
	} else {
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return nil, err
		}
		text = res.Body
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	return []domain.ContentUnit{{
		Text: text,
		Provenance: domain.Provenance{
			Source: filepath.Base(path),
			Page:   1,
			Type:   domain.ContentText,
		},
	}}, nil
}
