// Package storage picks the record store backend named by DB_DRIVER.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"medmind-server/config"
	"medmind-server/database"
	"medmind-server/repository"
	"medmind-server/repository/mongostore"
	"medmind-server/repository/sqlstore"
)

// Open connects to the configured backend. The caller owns the returned
// store and must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		conn, err := database.ConnectMongo(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		return mongostore.New(conn, cfg.QueryTimeout), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.OpenSQL(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
		}
		return sqlstore.New(db, cfg.QueryTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
