package domain

import "time"

// MetadataSchemaVersion is the current persisted metadata format version.
const MetadataSchemaVersion = 1

// FileFingerprint is a fast-to-compare summary of one source file,
// used to decide whether its content changed since the last indexing run.
type FileFingerprint struct {
	// Name is the file name, unique within a source directory.
	Name string `json:"-"`

	// ContentHash is the SHA-256 of the file bytes. Hash comparison takes
	// precedence over ModifiedTime: a touched-but-unchanged file is not
	// reported as changed.
	ContentHash string `json:"content_hash"`

	// SizeBytes is the file size at fingerprint time.
	SizeBytes int64 `json:"size"`

	// ModifiedTime is the file modification time at fingerprint time.
	ModifiedTime time.Time `json:"modified_time"`

	// PageCount is a best-effort page count. Zero means unknown;
	// a failed page count never fails fingerprinting.
	PageCount int `json:"page_count"`
}

// SameContent returns true if the two fingerprints describe identical
// file content. Only the hash is consulted.
func (f FileFingerprint) SameContent(other FileFingerprint) bool {
	return f.ContentHash != "" && f.ContentHash == other.ContentHash
}

// IndexMetadata is the persisted mapping from file name to fingerprint
// for one collection. The ingestion orchestrator is the only writer;
// the change detector is the reader.
type IndexMetadata struct {
	// SchemaVersion marks the persisted format for forward compatibility.
	SchemaVersion int `json:"schema_version"`

	// Files maps file name to its fingerprint at last successful index.
	Files map[string]FileFingerprint `json:"pdf_files"`
}

// NewIndexMetadata returns an empty metadata set at the current schema
// version. First run is a normal state, not an error.
func NewIndexMetadata() *IndexMetadata {
	return &IndexMetadata{
		SchemaVersion: MetadataSchemaVersion,
		Files:         make(map[string]FileFingerprint),
	}
}

// Clone returns a deep copy. Used to keep the in-memory metadata
// untouched until a run reaches the persisting stage.
func (m *IndexMetadata) Clone() *IndexMetadata {
	clone := &IndexMetadata{
		SchemaVersion: m.SchemaVersion,
		Files:         make(map[string]FileFingerprint, len(m.Files)),
	}
	for name, fp := range m.Files {
		clone.Files[name] = fp
	}
	return clone
}

// ChangeSet is the result of comparing current directory state against
// persisted metadata. A modified file appears in both Added and Deleted:
// re-indexing is full re-extraction, not a diff-patch of old chunks.
type ChangeSet struct {
	// Added are file names present on disk but not in metadata,
	// plus modified files (re-extract and re-index).
	Added []string

	// Deleted are file names present in metadata but absent on disk,
	// plus modified files (evict stale chunks before re-insert).
	Deleted []string

	// Fingerprints holds the current fingerprint of every eligible file
	// on disk, so the persisting stage never re-hashes.
	Fingerprints map[string]FileFingerprint
}

// Empty returns true if no files were added, deleted or modified.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Deleted) == 0
}
