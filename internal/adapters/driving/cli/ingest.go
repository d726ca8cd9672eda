package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdex/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one incremental ingestion pass",
	Long: `Scans the source directory, extracts content from files that were
added, changed or removed since the last run, and updates the vector
store. Unchanged files are skipped entirely.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	orch, cleanup, err := newOrchestrator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := ingestWithProgress(ctx, cmd, orch)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if report.Added == 0 && report.Deleted == 0 {
		cmd.Println("Everything up to date.")
		return nil
	}

	cmd.Printf("Indexed %d chunks from %d files (%d removed, %d failed) in %s\n",
		report.ChunksIndexed, report.Added, report.Deleted, len(report.FilesFailed),
		report.Duration.Round(time.Millisecond))
	return nil
}

// ingestWithProgress runs ingestion while displaying progress updates.
func ingestWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.IngestOrchestrator,
) (*driving.IngestReport, error) {
	type result struct {
		report *driving.IngestReport
		err    error
	}
	resCh := make(chan result, 1)
	go func() {
		report, err := orch.Run(ctx)
		resCh <- result{report, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resCh:
			if lastCount > 0 {
				cmd.Println()
			}
			return res.report, res.err
		case <-ticker.C:
			status := orch.Status()
			if status != nil && status.FilesProcessed > lastCount {
				cmd.Printf("\r%s... %d files", status.Stage, status.FilesProcessed)
				lastCount = status.FilesProcessed
			}
		}
	}
}
