// Package extractors provides shared infrastructure for the content
// extractors: PDF page reading, external command execution and the
// registry that fans one file out to every extractor supporting it.
//
// The extractors themselves live in subpackages, one per content type:
// pdftext, table, ocr, chart and doctext.
package extractors
