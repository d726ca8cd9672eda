package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdex/internal/core/services"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source directory and ingest on change",
	Long: `Runs an initial ingestion pass, then keeps watching the source
directory. Bursts of file changes are coalesced and trigger one
incremental run. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", services.DefaultDebounce,
		"how long to wait after the last change before ingesting")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch, cleanup, err := newOrchestrator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// Catch up before watching, so a directory that changed while
	// docdex was down is indexed immediately.
	if _, err := orch.Run(ctx); err != nil {
		return err
	}

	watcher := services.NewWatcher(cfg.SourceDir, cfg.Extensions, flagDebounce, orch, log)

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", cfg.SourceDir)
	err = watcher.Watch(ctx)
	if errors.Is(err, context.Canceled) {
		cmd.Println("Stopped.")
		return nil
	}
	return err
}
