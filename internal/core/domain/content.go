package domain

// ContentType classifies extracted content so the splitter can pick a
// strategy. The set is closed: adding a value requires a splitter entry,
// which the splitter's coverage test enforces.
type ContentType string

// Recognised content types.
const (
	// ContentText is plain page text.
	ContentText ContentType = "text"

	// ContentTable is a serialised table, one row per line.
	ContentTable ContentType = "table"

	// ContentOCR is text recognised from embedded raster images.
	ContentOCR ContentType = "ocr_images"

	// ContentChart is a textual description or caption of a figure.
	ContentChart ContentType = "chart_graph"

	// ContentStructured is pre-structured text from non-PDF sources
	// (spreadsheet exports, JSON dumps, etc).
	ContentStructured ContentType = "structured"
)

// AllContentTypes returns every recognised content type.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentText,
		ContentTable,
		ContentOCR,
		ContentChart,
		ContentStructured,
	}
}

// IsValid returns true if the content type is recognised.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentText, ContentTable, ContentOCR, ContentChart, ContentStructured:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ContentType) String() string {
	return string(t)
}

// ContextLabel returns the human-readable label used in chunk context
// headers. The label is deterministic so retrievers can disambiguate
// chunk provenance from content alone.
func (t ContentType) ContextLabel() string {
	switch t {
	case ContentText:
		return "Text"
	case ContentTable:
		return "Table"
	case ContentOCR:
		return "OCR text"
	case ContentChart:
		return "Chart"
	case ContentStructured:
		return "Structured data"
	default:
		return "Content"
	}
}

// Provenance records where a piece of content came from. It is attached
// to every ContentUnit and copied onto every Chunk derived from it, so
// downstream citation can always trace a chunk back to its source.
type Provenance struct {
	// Source is the source file name (base name within the directory).
	Source string

	// Page is the 1-based page number. Zero for sources without pages.
	Page int

	// Type is the content classification.
	Type ContentType

	// Extra carries forward-compatible extension fields.
	Extra map[string]string
}

// ContentUnit is one tagged fragment of extracted content, prior to
// retrieval-sized splitting. Units are immutable once produced.
type ContentUnit struct {
	// Text is the extracted payload.
	Text string

	// Provenance identifies the originating file, page and type.
	Provenance Provenance
}

// Chunk is a retrieval-sized fragment derived from a ContentUnit.
// Chunks are the unit actually embedded and handed to the vector store.
type Chunk struct {
	// ID is deterministic for a given source, page, type and position,
	// so re-upserting after a retry never duplicates.
	ID string

	// Text is the chunk content, including the context header prefix.
	Text string

	// Position is the ordinal position among chunks from the same unit.
	Position int

	// Provenance is inherited from the originating ContentUnit.
	Provenance Provenance

	// Embedding is the vector representation, populated during indexing.
	Embedding []float32
}

// FileResult is the outcome of extracting one file. Per-file failures
// are carried as values rather than aborting the batch, so the
// extracting stage's partial-failure semantics are visible in types.
type FileResult struct {
	// File is the source file name.
	File string

	// Units holds the extracted content on success.
	Units []ContentUnit

	// Err is the extraction failure, nil on success.
	Err error
}

// Failed returns true if extraction of this file failed.
func (r FileResult) Failed() bool {
	return r.Err != nil
}
