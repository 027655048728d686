package main

import (
	"github.com/spf13/cobra"

	"github.com/xxz807/finbank/internal/platform/config"
	"github.com/xxz807/finbank/internal/platform/database"
	"github.com/xxz807/finbank/internal/platform/logger"
)

func newMigrateCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			log, err := logger.NewLogger(cfg.Server.Mode)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := openGorm(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = closeGorm(db)() }()

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info("Schema is up to date")
			return nil
		},
	}
}
