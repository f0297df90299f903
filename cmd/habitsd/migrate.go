package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habittracker/config"
	"habittracker/pkg/logger"
)

// migrateCmd applies the schema and exits. The schema is idempotent, serve
// applies it too.
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, configDir)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			store.Close()

			log.Info("Schema applied", zap.String("storage", cfg.Storage.Driver))
			return nil
		},
	}
}
