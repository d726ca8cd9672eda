package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docdex/internal/config"
	"github.com/custodia-labs/docdex/internal/core/ports/driving"
	"github.com/custodia-labs/docdex/internal/logger"
)

// mockOrchestrator implements driving.IngestOrchestrator.
type mockOrchestrator struct {
	report *driving.IngestReport
	err    error
	runs   int
}

func (m *mockOrchestrator) Run(_ context.Context) (*driving.IngestReport, error) {
	m.runs++
	return m.report, m.err
}

func (m *mockOrchestrator) Status() *driving.IngestStatus {
	return &driving.IngestStatus{Stage: driving.StageIdle}
}

// setupIngestTest swaps the orchestrator builder for a mock.
func setupIngestTest(mock *mockOrchestrator) func() {
	oldBuild := newOrchestrator
	newOrchestrator = func(_ context.Context, _ *config.Config, _ *logger.Logger) (driving.IngestOrchestrator, func(), error) {
		return mock, func() {}, nil
	}
	return func() {
		newOrchestrator = oldBuild
	}
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
}

func TestIngestCmd_Short(t *testing.T) {
	assert.Equal(t, "Run one incremental ingestion pass", ingestCmd.Short)
}

func TestIngestCmd_ReportsChanges(t *testing.T) {
	mock := &mockOrchestrator{report: &driving.IngestReport{
		Added:         3,
		Deleted:       1,
		ChunksIndexed: 12,
		Duration:      2 * time.Second,
	}}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 1, mock.runs)
	assert.Contains(t, buf.String(), "Indexed 12 chunks from 3 files")
}

func TestIngestCmd_ReportsUpToDate(t *testing.T) {
	mock := &mockOrchestrator{report: &driving.IngestReport{}}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Everything up to date.")
}

func TestIngestCmd_PropagatesRunError(t *testing.T) {
	mock := &mockOrchestrator{err: errors.New("embedding service offline")}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service offline")
}
