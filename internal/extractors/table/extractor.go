// Package table extracts tabular regions from PDF pages. Rows are kept
// as literal lines so downstream splitting can honour row boundaries.
package table

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/extractors"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// minRegionRows is the minimum consecutive tabular lines that count as
// a table. A single aligned line is treated as ordinary text.
const minRegionRows = 2

// multiGap matches a column gap: two or more spaces, or a tab.
var multiGap = regexp.MustCompile(`\t| {2,}`)

// Extractor detects tabular regions in PDF page text.
type Extractor struct {
	log *logger.Logger
}

// New creates a table extractor.
func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "table"
}

// Supports reports whether this extractor handles the file.
func (e *Extractor) Supports(path string) bool {
	return extractors.HasExtension(path, ".pdf")
}

// Extract emits one table unit per detected region. A PDF without
// tables yields zero units.
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

		for _, region := range DetectRegions(page.Lines) {
			rows := page.Lines[region.Start:region.End]
			units = append(units, domain.ContentUnit{
				Text: strings.Join(rows, "\n"),
				Provenance: domain.Provenance{
					Source: source,
					Page:   page.Number,
					Type:   domain.ContentTable,
				},
			})
		}
	}

	return units, nil
}

// Region is a half-open line index range [Start, End) within a page.
type Region struct {
	Start int
	End   int
}

// Contains reports whether line index i falls inside the region.
func (r Region) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// DetectRegions finds runs of at least minRegionRows consecutive
// tabular lines. The page-text extractor uses the same regions to
// exclude table rows from plain text units, so table content is never
// double-indexed.
func DetectRegions(lines []string) []Region {
	var regions []Region
	start := -1

	flush := func(end int) {
		if start >= 0 && end-start >= minRegionRows {
			regions = append(regions, Region{Start: start, End: end})
		}
		start = -1
	}

	for i, line := range lines {
		if isTabular(line) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(lines))

	return regions
}

// isTabular reports whether a line looks like a table row: pipe
// delimited, or at least three columns separated by wide gaps.
func isTabular(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2 {
		return true
	}
	cols := multiGap.Split(trimmed, -1)
	nonEmpty := 0
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			nonEmpty++
		}
	}
	return nonEmpty >= 3
}
