// Command skillctl talks to the Star Wars Trivia skill from a terminal: it
// asks questions in-process or against a running webhook, lists the known
// characters and seeds the SQLite store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/config"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
)

type cli struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "skillctl",
		Short:         "Query and maintain the Star Wars Trivia skill",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			c.cfg = cfg

			level := cfg.Log.Level
			if !cmd.Flags().Changed("log-level") {
				level = "warn"
			}
			return logger.Initialize(level)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(c.newAskCmd(), c.newListCmd(), c.newSeedCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
