package ocr

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/logger"
)

const imageListing = `page   num  type   width height color comp bpc  enc interp  object ID x-ppi y-ppi size ratio
--------------------------------------------------------------------------------------------
   1     0 image     800   600  rgb     3   8  jpeg   no        10  0   150   150  120K  8%
   1     1 image     400   300  rgb     3   8  jpeg   no        11  0   150   150   40K  9%
   3     2 image     800   600  gray    1   8  image  no        12  0   300   300  200K 12%
`

// scriptRunner fakes the poppler and tesseract binaries. pdftoppm
// drops a placeholder PNG at the requested prefix so the glob in
// ocrPage finds it.
type scriptRunner struct {
	listOut  []byte
	listErr  error
	toppmErr error
	tessErr  error
	tessText map[string][]byte // keyed by page number from pdftoppm -f
	lastPage string
	calls    []string
}

func (r *scriptRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, name)
	switch name {
	case "pdfimages":
		return r.listOut, r.listErr
	case "pdftoppm":
		if r.toppmErr != nil {
			return nil, r.toppmErr
		}
		r.lastPage = args[1]
		prefix := args[len(args)-1]
		return nil, os.WriteFile(prefix+"-"+r.lastPage+".png", []byte("png"), 0o644)
	case "tesseract":
		if r.tessErr != nil {
			return nil, r.tessErr
		}
		return r.tessText[r.lastPage], nil
	}
	return nil, errors.New("unexpected command: " + name)
}

func newTestExtractor(runner *scriptRunner, missing ...string) *Extractor {
	e := New(runner, logger.Nop())
	e.lookPath = func(name string) bool {
		for _, m := range missing {
			if name == m {
				return false
			}
		}
		return true
	}
	return e
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("recognises text on pages with images", func(t *testing.T) {
		runner := &scriptRunner{
			listOut: []byte(imageListing),
			tessText: map[string][]byte{
				"1": []byte("Scanned heading\n"),
				"3": []byte("  Handwritten note  "),
			},
		}
		e := newTestExtractor(runner)

		units, err := e.Extract(ctx, "scan.pdf")
		require.NoError(t, err)

		require.Len(t, units, 2)
		assert.Equal(t, "Scanned heading", units[0].Text)
		assert.Equal(t, 1, units[0].Provenance.Page)
		assert.Equal(t, domain.ContentOCR, units[0].Provenance.Type)
		assert.Equal(t, "scan.pdf", units[0].Provenance.Source)
		assert.Equal(t, "Handwritten note", units[1].Text)
		assert.Equal(t, 3, units[1].Provenance.Page)
	})

	t.Run("page one is rasterised only once despite two images", func(t *testing.T) {
		runner := &scriptRunner{
			listOut:  []byte(imageListing),
			tessText: map[string][]byte{"1": []byte("a"), "3": []byte("b")},
		}
		e := newTestExtractor(runner)

		_, err := e.Extract(ctx, "scan.pdf")
		require.NoError(t, err)

		toppm := 0
		for _, call := range runner.calls {
			if call == "pdftoppm" {
				toppm++
			}
		}
		assert.Equal(t, 2, toppm)
	})

	t.Run("missing binaries disable OCR without error", func(t *testing.T) {
		runner := &scriptRunner{}
		e := newTestExtractor(runner, "tesseract")

		units, err := e.Extract(ctx, "scan.pdf")
		require.NoError(t, err)

		assert.Nil(t, units)
		assert.Empty(t, runner.calls)
	})

	t.Run("image listing failure yields no units", func(t *testing.T) {
		runner := &scriptRunner{listErr: errors.New("broken pdf")}
		e := newTestExtractor(runner)

		units, err := e.Extract(ctx, "scan.pdf")
		require.NoError(t, err)
		assert.Nil(t, units)
	})

	t.Run("pdf without images yields no units", func(t *testing.T) {
		header := "page   num  type   width height color comp bpc  enc interp  object ID x-ppi y-ppi size ratio\n" +
			"--------------------------------------------------------------------------------------------\n"
		runner := &scriptRunner{listOut: []byte(header)}
		e := newTestExtractor(runner)

		units, err := e.Extract(ctx, "plain.pdf")
		require.NoError(t, err)
		assert.Nil(t, units)
	})

	t.Run("per-page OCR failure skips the page", func(t *testing.T) {
		runner := &scriptRunner{
			listOut: []byte(imageListing),
			tessErr: errors.New("tesseract crashed"),
		}
		e := newTestExtractor(runner)

		units, err := e.Extract(ctx, "scan.pdf")
		require.NoError(t, err)
		assert.Empty(t, units)
	})

	t.Run("blank OCR output is dropped", func(t *testing.T) {
		runner := &scriptRunner{
			listOut:  []byte(imageListing),
			tessText: map[string][]byte{"1": []byte("   \n"), "3": []byte("real text")},
		}
		e := newTestExtractor(runner)

		units, err := e.Extract(ctx, "scan.pdf")
		require.NoError(t, err)

		require.Len(t, units, 1)
		assert.Equal(t, 3, units[0].Provenance.Page)
	})

	t.Run("cancelled context aborts extraction", func(t *testing.T) {
		runner := &scriptRunner{listOut: []byte(imageListing)}
		e := newTestExtractor(runner)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := e.Extract(cancelled, "scan.pdf")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPageNumberParsing(t *testing.T) {
	runner := &scriptRunner{listOut: []byte(imageListing)}
	e := newTestExtractor(runner)

	pages, err := e.pagesWithImages(context.Background(), "scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, pages)
}
