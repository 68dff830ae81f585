package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [topic]",
	Short: "Generate one script from the command line",
	Long:  `Runs the full retrieval and composition pipeline for a single topic and prints the generated script.`,
	Args:  cobra.MinimumNArgs(1),
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

		a, err := buildApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		topic := strings.Join(args, " ")
		reply, sid, err := a.engine.Respond(cmd.Context(), askSession, topic)
		if err != nil {
			return err
		}

		fmt.Println(reply)
		fmt.Fprintf(cmd.ErrOrStderr(), "\nsession: %s\n", sid)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "continue an existing session")
	rootCmd.AddCommand(askCmd)
}
