// Command cricketctl runs operator tasks against the league database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lutefd/cricket-api/internal/config"
	"github.com/lutefd/cricket-api/internal/logging"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	cfg config.Config
	dsn string
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "cricketctl",
		Short:         "Operator tooling for the cricket API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			if opts.dsn == "" {
				opts.dsn = cfg.DatabaseURL
			}
			logger, err := logging.New(cfg.LogLevel, "console")
			if err != nil {
				return err
			}
			opts.log = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.dsn, "database-url", "", "postgres DSN (defaults to DATABASE_URL)")

	root.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newScorecardCmd(opts),
	)
	return root
}

func (o *rootOptions) openStore(ctx context.Context) (*postgres.Store, error) {
	store, err := postgres.NewStore(ctx, o.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return store, nil
}
