package cli

import (
	"sort"

	"github.com/spf13/cobra"

	metafile "github.com/custodia-labs/docdex/internal/adapters/driven/metadata/file"
	"github.com/custodia-labs/docdex/internal/adapters/driven/vectorstore/sqlite"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is currently indexed",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	meta, err := metafile.NewStore(cfg.DataDir, log)
	if err != nil {
		return err
	}

	index, err := meta.Load(ctx, cfg.Collection)
	if err != nil {
		return err
	}

	cmd.Printf("Collection: %s\n", cfg.Collection)
	cmd.Printf("Source:     %s\n", cfg.SourceDir)
	cmd.Printf("Files:      %d\n", len(index.Files))

	// Chunk counts are only available locally; a pgvector deployment
	// is queried at ingest time, not here.
	if cfg.VectorStore.Driver == "" || cfg.VectorStore.Driver == "sqlite" {
		store, err := sqlite.NewStore(cfg.DataDir, cfg.Collection)
		if err == nil {
			defer store.Close()
			if count, err := store.Count(ctx); err == nil {
				cmd.Printf("Chunks:     %d\n", count)
			}
		}
	}

	if len(index.Files) == 0 {
		return nil
	}

	names := make([]string, 0, len(index.Files))
	for name := range index.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Println()
	for _, name := range names {
		fp := index.Files[name]
		if fp.PageCount > 0 {
			cmd.Printf("  %s (%d pages)\n", name, fp.PageCount)
		} else {
			cmd.Printf("  %s\n", name)
		}
	}
	return nil
}
