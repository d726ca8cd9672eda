// Package cli wires the cobra command tree for docdex.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdex/internal/adapters/driven/ai"
	metafile "github.com/custodia-labs/docdex/internal/adapters/driven/metadata/file"
	"github.com/custodia-labs/docdex/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/docdex/internal/config"
	"github.com/custodia-labs/docdex/internal/core/ports/driving"
	"github.com/custodia-labs/docdex/internal/core/services"
	"github.com/custodia-labs/docdex/internal/extractors"
	"github.com/custodia-labs/docdex/internal/extractors/chart"
	"github.com/custodia-labs/docdex/internal/extractors/doctext"
	"github.com/custodia-labs/docdex/internal/extractors/ocr"
	"github.com/custodia-labs/docdex/internal/extractors/pdftext"
	"github.com/custodia-labs/docdex/internal/extractors/table"
	"github.com/custodia-labs/docdex/internal/logger"
	"github.com/custodia-labs/docdex/internal/splitter"
)

// Flag values bound to the root command.
var (
	flagConfig     string
	flagSourceDir  string
	flagDataDir    string
	flagCollection string
	flagVerbose    bool
)

// Package-level dependencies, initialised in PersistentPreRunE and
// swappable in tests.
var (
	cfg *config.Config
	log *logger.Logger

	// newOrchestrator builds the ingestion pipeline. The returned
	// cleanup closes the embedding service and vector store.
	newOrchestrator = buildOrchestrator
)

var rootCmd = &cobra.Command{
	Use:   "docdex",
	Short: "Incremental document indexing for RAG pipelines",
	Long: `docdex watches a directory of documents, extracts text, tables,
OCR text and chart descriptions, and keeps a vector store in sync.
Only files whose content actually changed are re-processed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagSourceDir != "" {
			loaded.SourceDir = flagSourceDir
		}
		if flagDataDir != "" {
			loaded.DataDir = flagDataDir
		}
		if flagCollection != "" {
			loaded.Collection = flagCollection
		}

		cfg = loaded
		log = logger.New(flagVerbose)
		log.SetOutput(cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagSourceDir, "source-dir", "", "directory of documents to index")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for metadata and local vector data")
	rootCmd.PersistentFlags().StringVar(&flagCollection, "collection", "", "collection name")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// buildOrchestrator assembles the full pipeline from configuration.
func buildOrchestrator(ctx context.Context, cfg *config.Config, log *logger.Logger) (driving.IngestOrchestrator, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, nil, err
	}

	meta, err := metafile.NewStore(cfg.DataDir, log)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	store, err := vectorstore.New(ctx, cfg, embedder.Dimensions())
	if err != nil {
		embedder.Close()
		return nil, nil, fmt.Errorf("open vector store: %w", err)
	}

	registry := extractors.NewRegistry(log)
	registry.Register(pdftext.New(log))
	registry.Register(table.New(log))
	registry.Register(ocr.New(extractors.ExecRunner{}, log))
	registry.Register(chart.New(log))
	registry.Register(doctext.New(log))

	orch := services.NewOrchestrator(services.OrchestratorConfig{
		SourceDir:   cfg.SourceDir,
		Collection:  cfg.Collection,
		Workers:     cfg.Workers,
		FileTimeout: cfg.FileTimeout,
		Metadata:    meta,
		Lock:        metafile.NewLock(cfg.DataDir, log),
		Detector:    services.NewChangeDetector(meta, cfg.Extensions, cfg.Recursive, cfg.FileTimeout, log),
		Registry:    registry,
		Splitter: splitter.New(
			splitter.WithChunkSize(cfg.ChunkSize),
			splitter.WithOverlap(cfg.ChunkOverlap),
			splitter.WithLogger(log),
		),
		Embedder: embedder,
		Store:    store,
		Logger:   log,
	})

	cleanup := func() {
		embedder.Close()
		store.Close()
	}
	return orch, cleanup, nil
}
