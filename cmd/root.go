// Package cmd contains the scribecast CLI.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scribecast",
	Short: "Retrieval-augmented script writing assistant",
	Long: `Scribecast drafts narration scripts for a content channel. For each
request it gathers context from an expert model, an encyclopedia, web
search, and an indexed document corpus, then composes a persona-driven
prompt for the completion model.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// API keys and hosts may live in a local .env file.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".scribecast.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
