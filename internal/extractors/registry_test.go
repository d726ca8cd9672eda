package extractors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/logger"
)

// fakeExtractor implements driven.Extractor with canned output.
type fakeExtractor struct {
	name  string
	ext   string
	units []domain.ContentUnit
	err   error
	calls int
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Supports(path string) bool {
	return HasExtension(path, f.ext)
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) ([]domain.ContentUnit, error) {
	f.calls++
	return f.units, f.err
}

func unit(text string, ct domain.ContentType) domain.ContentUnit {
	return domain.ContentUnit{
		Text:       text,
		Provenance: domain.Provenance{Source: "a.pdf", Page: 1, Type: ct},
	}
}

func TestRegistryExtractFile(t *testing.T) {
	ctx := context.Background()

	t.Run("fans out to every supporting extractor in order", func(t *testing.T) {
		text := &fakeExtractor{name: "text", ext: ".pdf", units: []domain.ContentUnit{unit("prose", domain.ContentText)}}
		tables := &fakeExtractor{name: "table", ext: ".pdf", units: []domain.ContentUnit{unit("| a | b |", domain.ContentTable)}}
		docs := &fakeExtractor{name: "doctext", ext: ".txt"}

		r := NewRegistry(logger.Nop())
		r.Register(text)
		r.Register(tables)
		r.Register(docs)

		units, err := r.ExtractFile(ctx, "report.pdf")
		require.NoError(t, err)

		require.Len(t, units, 2)
		assert.Equal(t, domain.ContentText, units[0].Provenance.Type)
		assert.Equal(t, domain.ContentTable, units[1].Provenance.Type)
		assert.Equal(t, 1, text.calls)
		assert.Equal(t, 1, tables.calls)
		assert.Zero(t, docs.calls, "non-supporting extractor must not run")
	})

	t.Run("any extractor error fails the whole file", func(t *testing.T) {
		good := &fakeExtractor{name: "text", ext: ".pdf", units: []domain.ContentUnit{unit("prose", domain.ContentText)}}
		bad := &fakeExtractor{name: "table", ext: ".pdf", err: errors.New("parse error")}

		r := NewRegistry(logger.Nop())
		r.Register(good)
		r.Register(bad)

		_, err := r.ExtractFile(ctx, "report.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "table")
	})

	t.Run("unsupported file type is a distinct error", func(t *testing.T) {
		r := NewRegistry(logger.Nop())
		r.Register(&fakeExtractor{name: "text", ext: ".pdf"})

		_, err := r.ExtractFile(ctx, "archive.zip")
		assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
	})

	t.Run("supported file with zero units succeeds", func(t *testing.T) {
		r := NewRegistry(logger.Nop())
		r.Register(&fakeExtractor{name: "ocr", ext: ".pdf"})

		units, err := r.ExtractFile(ctx, "blank.pdf")
		require.NoError(t, err)
		assert.Empty(t, units)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		r := NewRegistry(logger.Nop())
		r.Register(&fakeExtractor{name: "text", ext: ".pdf"})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := r.ExtractFile(cancelled, "report.pdf")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("a.pdf", ".pdf"))
	assert.True(t, HasExtension("A.PDF", ".pdf"))
	assert.True(t, HasExtension("a.md", ".txt", ".md"))
	assert.False(t, HasExtension("a.pdf", ".txt"))
	assert.False(t, HasExtension("pdf", ".pdf"))
}
