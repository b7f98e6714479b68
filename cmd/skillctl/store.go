package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/bootstrap"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store/sqlite"
)

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the characters known to the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap.New(c.cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			chars, err := rt.Store.ListCharacters(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPLANET\tLIGHTSABER\tQUOTES")
			for _, ch := range chars {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", ch.Name, ch.Planet, ch.LightsaberColor, len(ch.Quotes))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations and load the character dataset into the SQLite store",
		Long: `seed creates or upgrades the SQLite database named by --database and
loads the YAML dataset named by --dataset (the bundled dataset when empty).
Existing characters are updated and their quotes replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chars, err := store.LoadDataset(c.cfg.Store.DatasetPath)
			if err != nil {
				return err
			}

			s, err := sqlite.Open(c.cfg.Store.DatabasePath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Seed(cmd.Context(), chars); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d characters into %s\n", len(chars), c.cfg.Store.DatabasePath)
			return nil
		},
	}
}
