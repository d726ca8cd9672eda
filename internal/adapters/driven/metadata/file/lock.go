package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/logger"
)

// Ensure Lock implements the interface.
var _ driven.RunLock = (*Lock)(nil)

// Lock provides lock-file mutual exclusion between ingestion runs
// against the same collection. The lock file contains the holder's PID
// for diagnostics.
type Lock struct {
	dataDir string
	log     *logger.Logger
}

// NewLock creates a run lock rooted at dataDir.
func NewLock(dataDir string, log *logger.Logger) *Lock {
	return &Lock{dataDir: dataDir, log: log}
}

// Acquire takes the lock for a collection by exclusively creating the
// lock file. Returns domain.ErrLockHeld when another run holds it.
func (l *Lock) Acquire(_ context.Context, collection string) (func(), error) {
	path := filepath.Join(l.dataDir, collection+".lock")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if os.IsExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockHeld, path)
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close lock file: %w", err)
	}

	l.log.Debug("Acquired ingestion lock %s", path)

	release := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			l.log.Warn("Failed to release lock %s: %v", path, err)
		}
	}
	return release, nil
}
