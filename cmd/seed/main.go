package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk-service/internal/config"
	"github.com/ticketdesk/ticketdesk-service/internal/observability"
	"github.com/ticketdesk/ticketdesk-service/internal/persistence"
	"github.com/ticketdesk/ticketdesk-service/internal/seed"
)

func main() {
	fixturesPath := pflag.StringP("file", "f", "", "YAML fixture file (defaults to the embedded demo data)")
	reset := pflag.Bool("reset", false, "delete users, tickets and notifications before seeding")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		logger.Fatal("failed to load fixtures", zap.Error(err))
	}

	ctx := context.Background()
	store, closeStore, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	res, err := seed.Run(ctx, store, fixtures, seed.Options{Reset: *reset, BcryptCost: cfg.Auth.BcryptCost}, logger)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("database seeded",
		zap.String("store", store.Name),
		zap.Int("users_created", res.UsersCreated),
		zap.Int("users_skipped", res.UsersSkipped),
		zap.Int("tickets_created", res.TicketsCreated),
		zap.Int("tickets_skipped", res.TicketsSkipped))
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
