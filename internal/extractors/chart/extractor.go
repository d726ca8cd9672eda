// Package chart extracts figure and chart descriptions from PDF pages.
// Detection is caption-based: a lead line such as "Figure 3:" or
// "Chart 1." starts a description, which runs to the next blank-ish
// boundary.
package chart

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

// captionLead matches lines introducing a figure, chart or graph.
var captionLead = regexp.MustCompile(`(?i)^(figure|fig\.|chart|graph|diagram)\s*\d*\s*[:.\-]`)

// maxCaptionLines bounds how many following lines join a caption.
const maxCaptionLines = 3

// Extractor emits a chart_graph unit per detected figure caption.
type Extractor struct {
	log *logger.Logger
}

// New creates a chart caption extractor.
func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "chart"
}

// Supports reports whether this extractor handles the file.
func (e *Extractor) Supports(path string) bool {
	return extractors.HasExtension(path, ".pdf")
}

// Extract returns one unit per caption found. A PDF without figure
// captions yields zero units.
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

		for _, caption := range Captions(page.Lines) {
			units = append(units, domain.ContentUnit{
				Text: caption,
				Provenance: domain.Provenance{
					Source: source,
					Page:   page.Number,
					Type:   domain.ContentChart,
				},
			})
		}
	}

	return units, nil
}

// Captions scans page lines for figure captions. Each caption is the
// lead line plus up to maxCaptionLines continuation lines, stopping at
// another caption or a structural line.
func Captions(lines []string) []string {
	var captions []string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !captionLead.MatchString(line) {
			continue
		}

		parts := []string{line}
		for j := i + 1; j < len(lines) && j <= i+maxCaptionLines; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || captionLead.MatchString(next) || looksStructural(next) {
				break
			}
			parts = append(parts, next)
			i = j
		}

		captions = append(captions, strings.Join(parts, " "))
	}

	return captions
}

// looksStructural filters lines that clearly belong to surrounding
// prose structure rather than a caption continuation.
func looksStructural(line string) bool {
	return strings.HasPrefix(line, "|") || strings.Contains(line, "  ")
}
