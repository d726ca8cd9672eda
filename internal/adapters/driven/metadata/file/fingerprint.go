package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// Fingerprint computes size, modification time and a SHA-256 content
// hash for the file at path, plus a best-effort page count for PDFs.
// A page count failure is recorded as unknown, never as an error:
// fingerprinting must succeed for any readable file.
func (s *Store) Fingerprint(ctx context.Context, path string) (domain.FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileFingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}

	hash, err := hashFile(ctx, path)
	if err != nil {
		return domain.FileFingerprint{}, fmt.Errorf("hash %s: %w", path, err)
	}

	fp := domain.FileFingerprint{
		Name:         filepath.Base(path),
		ContentHash:  hash,
		SizeBytes:    info.Size(),
		ModifiedTime: info.ModTime().UTC(),
		PageCount:    pageCount(path),
	}
	return fp, nil
}

// hashFile streams the file through SHA-256.
func hashFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// pageCount returns the PDF page count, or zero when the file is not a
// PDF or cannot be parsed.
func pageCount(path string) int {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return 0
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	return reader.NumPage()
}
