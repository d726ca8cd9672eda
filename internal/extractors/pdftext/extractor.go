// Package pdftext extracts page-level plain text from PDF files.
package pdftext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/extractors"
	"github.com/custodia-labs/docdex/internal/extractors/table"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor emits one plain text unit per PDF page. Lines inside
// detected table regions are excluded; those are the table extractor's
// responsibility, and emitting them twice would double-index tables.
type Extractor struct {
	log *logger.Logger
}

// New creates a page text extractor.
func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "pdftext"
}

// Supports reports whether this extractor handles the file.
func (e *Extractor) Supports(path string) bool {
	return extractors.HasExtension(path, ".pdf")
}

// Extract returns one text unit per page with non-empty prose content.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.ContentUnit, error) {
	pages, err := extractors.ReadPDFPages(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	var units []domain.ContentUnit

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := proseText(page.Lines)
		if text == "" {
			continue
		}

		units = append(units, domain.ContentUnit{
			Text: text,
			Provenance: domain.Provenance{
				Source: source,
				Page:   page.Number,
				Type:   domain.ContentText,
			},
		})
	}

	return units, nil
}

// proseText joins the page lines that are not part of a table region.
func proseText(lines []string) string {
	regions := table.DetectRegions(lines)

	var kept []string
	for i, line := range lines {
		inTable := false
		for _, r := range regions {
			if r.Contains(i) {
				inTable = true
				break
			}
		}
		if !inTable {
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
