package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"habittracker/config"
	"habittracker/internal/db"
	"habittracker/internal/repository"
	"habittracker/internal/repository/postgres"
	"habittracker/internal/repository/sqlite"
	pkgdb "habittracker/pkg/db"
)

// openStore connects the configured backend and applies the schema.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		logger.Info("Using SQLite storage", zap.String("path", cfg.Storage.SQLitePath))
		return sqlite.Open(ctx, cfg.Storage.SQLitePath, logger)

	case config.DriverPostgres:
		pool, err := pkgdb.NewConnection(ctx, cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.NewStore(pool, logger), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
