// Package services contains the core ingestion logic: change
// detection, the run orchestrator and the directory watcher.
package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/logger"
)

// ChangeDetector compares current directory state against persisted
// index metadata to produce the add/delete delta for a run.
type ChangeDetector struct {
	meta        driven.MetadataStore
	extensions  []string
	recursive   bool
	fileTimeout time.Duration
	log         *logger.Logger
}

// NewChangeDetector creates a change detector. Files whose extension
// is not in extensions are silently ignored. fileTimeout bounds
// hashing of a single file.
func NewChangeDetector(
	meta driven.MetadataStore,
	extensions []string,
	recursive bool,
	fileTimeout time.Duration,
	log *logger.Logger,
) *ChangeDetector {
	return &ChangeDetector{
		meta:        meta,
		extensions:  extensions,
		recursive:   recursive,
		fileTimeout: fileTimeout,
		log:         log,
	}
}

// Detect lists eligible files in dir, fingerprints them and compares
// against metadata. A file on disk but not in metadata is added; a
// file in metadata but not on disk is deleted; a file in both with a
// differing content hash is treated as deleted plus added (full
// re-extraction). Hash comparison takes precedence over modification
// time: a touched-but-unchanged file is not reported at all.
func (d *ChangeDetector) Detect(ctx context.Context, dir string, meta *domain.IndexMetadata) (domain.ChangeSet, error) {
	if meta == nil {
		return domain.ChangeSet{}, domain.ErrInvalidInput
	}

	paths, err := d.listEligible(dir)
	if err != nil {
		return domain.ChangeSet{}, err
	}

	changes := domain.ChangeSet{
		Fingerprints: make(map[string]domain.FileFingerprint, len(paths)),
	}

	for name, path := range paths {
		fp, err := d.fingerprint(ctx, path)
		if err != nil {
			// Unreadable files stay out of this run entirely; without a
			// fingerprint they are retried next run.
			d.log.Warn("Skipping unreadable file %s: %v", name, err)
			continue
		}
		fp.Name = name
		changes.Fingerprints[name] = fp

		prev, known := meta.Files[name]
		switch {
		case !known:
			changes.Added = append(changes.Added, name)
		case !prev.SameContent(fp):
			// Modified: evict old chunks, re-extract from scratch.
			changes.Deleted = append(changes.Deleted, name)
			changes.Added = append(changes.Added, name)
		}
	}

	for name := range meta.Files {
		if _, onDisk := changes.Fingerprints[name]; !onDisk {
			changes.Deleted = append(changes.Deleted, name)
		}
	}

	sort.Strings(changes.Added)
	sort.Strings(changes.Deleted)

	d.log.Debug("Change detection: %d added, %d deleted (%d files on disk)",
		len(changes.Added), len(changes.Deleted), len(changes.Fingerprints))
	return changes, nil
}

// fingerprint hashes one file under the per-file timeout.
func (d *ChangeDetector) fingerprint(ctx context.Context, path string) (domain.FileFingerprint, error) {
	if d.fileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.fileTimeout)
		defer cancel()
	}
	return d.meta.Fingerprint(ctx, path)
}

// listEligible maps canonical file name to absolute path for every
// eligible file under dir. Names are paths relative to dir with
// forward slashes, so they stay unique when scanning recursively.
func (d *ChangeDetector) listEligible(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceDirInvalid, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrSourceDirInvalid, dir)
	}

	paths := make(map[string]string)

	if d.recursive {
		err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || !d.eligible(entry.Name()) {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			paths[filepath.ToSlash(rel)] = path
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
		return paths, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !d.eligible(entry.Name()) {
			continue
		}
		paths[entry.Name()] = filepath.Join(dir, entry.Name())
	}
	return paths, nil
}

// eligible reports whether the file name carries an allowed extension.
func (d *ChangeDetector) eligible(name string) bool {
	ext := filepath.Ext(name)
	for _, allowed := range d.extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}
