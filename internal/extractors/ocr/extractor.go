// Package ocr recognises text in raster images embedded in PDF pages.
// It shells out to poppler (pdfimages, pdftoppm) and tesseract through
// an injectable CommandRunner; hosts without those binaries simply
// produce no OCR units.
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/extractors"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor runs OCR over pages with embedded images.
type Extractor struct {
	runner   extractors.CommandRunner
	log      *logger.Logger
	lookPath func(string) bool
}

// New creates an OCR extractor using the given command runner.
func New(runner extractors.CommandRunner, log *logger.Logger) *Extractor {
	return &Extractor{
		runner:   runner,
		log:      log,
		lookPath: extractors.LookPath,
	}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "ocr"
}

// Supports reports whether this extractor handles the file.
func (e *Extractor) Supports(path string) bool {
	return extractors.HasExtension(path, ".pdf")
}

// Extract OCRs every page that embeds at least one raster image.
// A PDF with no embedded images yields zero units, not an error.
// Missing poppler or tesseract binaries also yield zero units: OCR is
// best-effort enrichment, never a reason to fail a file.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.ContentUnit, error) {
	if !e.lookPath("pdfimages") || !e.lookPath("tesseract") {
		e.log.Debug("OCR disabled: pdfimages/tesseract not on PATH")
		return nil, nil
	}

	pages, err := e.pagesWithImages(ctx, path)
	if err != nil {
		e.log.Debug("OCR image listing failed for %s: %v", filepath.Base(path), err)
		return nil, nil
	}
	if len(pages) == 0 {
		return nil, nil
	}

	source := filepath.Base(path)
	var units []domain.ContentUnit

	for _, pageNum := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := e.ocrPage(ctx, path, pageNum)
		if err != nil {
			e.log.Debug("OCR failed for %s page %d: %v", source, pageNum, err)
			continue
		}
		if text == "" {
			continue
		}

		units = append(units, domain.ContentUnit{
			Text: text,
			Provenance: domain.Provenance{
				Source: source,
				Page:   pageNum,
				Type:   domain.ContentOCR,
			},
		})
	}

	return units, nil
}

// pagesWithImages parses `pdfimages -list` output into the sorted set
// of page numbers embedding at least one image.
func (e *Extractor) pagesWithImages(ctx context.Context, path string) ([]int, error) {
	out, err := e.runner.Run(ctx, "pdfimages", "-list", path)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var pages []int

	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		// First two lines are the column header and its underline.
		if i < 2 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		pageNum, err := strconv.Atoi(fields[0])
		if err != nil || pageNum <= 0 || seen[pageNum] {
			continue
		}
		seen[pageNum] = true
		pages = append(pages, pageNum)
	}

	return pages, nil
}

// ocrPage rasterises one page and runs tesseract over it.
func (e *Extractor) ocrPage(ctx context.Context, path string, pageNum int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "docdex-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create ocr temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	page := strconv.Itoa(pageNum)
	if _, err := e.runner.Run(ctx, "pdftoppm",
		"-f", page, "-l", page, "-r", "300", "-png", path, prefix); err != nil {
		return "", err
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("page %d rasterisation produced no image", pageNum)
	}

	var parts []string
	for _, img := range images {
		out, err := e.runner.Run(ctx, "tesseract", img, "stdout")
		if err != nil {
			return "", err
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}
