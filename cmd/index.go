package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribecast/internal/indexer"
	"scribecast/internal/progress"
	"scribecast/internal/vectordb"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the document corpus for similarity search",
	Long:  `Reads the corpus directory, chunks every matching file, embeds the chunks, and persists the vector index under the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log, err := buildLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer log.Sync()

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		store, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return fmt.Errorf("creating vector store: %w", err)
		}

		pipeline := indexer.NewPipeline(store, progress.NewReporter(), log)
		stats, err := pipeline.Run(cmd.Context(), indexer.Options{
			Root:    cfg.CorpusDir,
			Include: cfg.Include,
			Exclude: cfg.Exclude,
		})
		if err != nil {
			return err
		}

		vectorDir := vectorDBDir(cfg)
		if err := store.Persist(cmd.Context(), vectorDir); err != nil {
			return fmt.Errorf("persisting index: %w", err)
		}

		fmt.Printf("Indexed %d files into %d chunks (%s)\n", stats.Files, stats.Chunks, vectorDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
