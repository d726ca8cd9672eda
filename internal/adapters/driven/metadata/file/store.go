// Package file provides the JSON-file metadata store. One metadata
// document is kept per collection, named <collection>_metadata.json
// inside the data directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.MetadataStore = (*Store)(nil)

// Store persists index metadata as JSON documents in a data directory.
type Store struct {
	dataDir string
	log     *logger.Logger
}

// NewStore creates a metadata store rooted at dataDir.
// The directory is created if it does not exist.
func NewStore(dataDir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dataDir: dataDir, log: log}, nil
}

// Path returns the metadata file path for a collection.
func (s *Store) Path(collection string) string {
	return filepath.Join(s.dataDir, collection+"_metadata.json")
}

// Load reads persisted metadata for a collection. A missing file yields
// empty metadata. Corrupt metadata is logged as a warning and also
// yields empty metadata, which triggers a full re-index on this run.
func (s *Store) Load(_ context.Context, collection string) (*domain.IndexMetadata, error) {
	data, err := os.ReadFile(s.Path(collection))
	if os.IsNotExist(err) {
		return domain.NewIndexMetadata(), nil
	}
	if err != nil {
		s.log.Warn("Metadata for %s unreadable, falling back to full re-index: %v", collection, err)
		return domain.NewIndexMetadata(), nil
	}

	var meta domain.IndexMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		s.log.Warn("%v for %s, falling back to full re-index: %v",
			domain.ErrCorruptMetadata, collection, err)
		return domain.NewIndexMetadata(), nil
	}
	if meta.Files == nil {
		meta.Files = make(map[string]domain.FileFingerprint)
	}
	for name, fp := range meta.Files {
		fp.Name = name
		meta.Files[name] = fp
	}
	return &meta, nil
}

// Save atomically writes metadata for a collection. The document is
// written to a temp file in the same directory and renamed into place,
// so readers never observe a partial write.
func (s *Store) Save(_ context.Context, collection string, meta *domain.IndexMetadata) error {
	if meta == nil {
		return domain.ErrInvalidInput
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, collection+"_metadata-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp metadata file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close metadata: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path(collection)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename metadata into place: %w", err)
	}

	s.log.Debug("Saved metadata for %s (%d files)", collection, len(meta.Files))
	return nil
}
