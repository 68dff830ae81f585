package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribecast/internal/chatlog"
	"scribecast/internal/compose"
	"scribecast/internal/config"
	"scribecast/internal/db"
	"scribecast/internal/llm"
	mcpserver "scribecast/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the research pipeline, corpus search, and session history to AI agents.`,
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

		expertProviderType := cfg.ExpertProvider
		if expertProviderType == "" {
			expertProviderType = cfg.Provider
		}
		expertProvider, err := llm.NewProvider(string(expertProviderType), cfg.ExpertModel)
		if err != nil {
			return fmt.Errorf("creating expert provider: %w", err)
		}

		store, err := openVectorStore(cfg, log)
		if err != nil {
			return err
		}

		aggregator, err := buildAggregator(cfg, expertProvider, store, log)
		if err != nil {
			return err
		}

		persona, err := config.LoadPersona(cfg.PersonaFile)
		if err != nil {
			return err
		}

		database, err := db.Open(chatDBPath(cfg))
		if err != nil {
			return fmt.Errorf("opening session database: %w", err)
		}
		defer database.Close()
		turns := chatlog.NewStore(database, log)
		defer turns.Close()

		mcpserver.Version = Version

		srv := mcpserver.NewServer(aggregator, compose.New(cfg.PromptBudget), persona, store, turns)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
