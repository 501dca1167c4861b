package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk-service/internal/config"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	"github.com/ticketdesk/ticketdesk-service/internal/repository/memory"
	"github.com/ticketdesk/ticketdesk-service/internal/repository/mongodb"
)

// OpenStore connects the backend selected by STORAGE_DRIVER and returns its
// repositories with a function releasing the connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		m, err := NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, m.Database); err != nil {
			_ = m.Close(context.Background())
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return mongodb.NewStore(m.Database), func() { _ = m.Close(context.Background()) }, nil

	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewStore(), func() {}, nil

	default:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return repository.NewPostgresStore(pg.Pool), pg.Close, nil
	}
}
