package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lutefd/cricket-api/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load teams, squads and tournaments from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			fixture, err := seed.Parse(f)
			if err != nil {
				return err
			}

			store, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			sum, err := seed.Load(cmd.Context(), store, fixture, time.Now().UTC())
			if err != nil {
				return err
			}
			opts.log.Info("seed loaded",
				zap.String("file", args[0]),
				zap.Int("teams_inserted", sum.Teams.Inserted),
				zap.Int("players_inserted", sum.Players.Inserted),
				zap.Int("tournaments_created", sum.Tournaments),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "teams +%d ~%d, players +%d ~%d, tournaments +%d\n",
				sum.Teams.Inserted, sum.Teams.Updated, sum.Players.Inserted, sum.Players.Updated, sum.Tournaments)
			return nil
		},
	}
}
