package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xxz807/finbank/internal/ledger/adapter/repo"
	"github.com/xxz807/finbank/internal/ledger/domain"
	"github.com/xxz807/finbank/internal/platform/config"
	"github.com/xxz807/finbank/internal/platform/database"
)

// openStore builds the configured store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.Store, func() error, error) {
	if cfg.Database.IsGorm() {
		db, err := openGorm(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				return nil, nil, err
			}
		}
		return repo.NewGormStore(db), closeGorm(db), nil
	}

	client, err := database.NewMongoClient(ctx, cfg.Database.DSN, cfg.Ledger.TxTimeout, log)
	if err != nil {
		return nil, nil, err
	}
	store := repo.NewMongoStore(client, cfg.Database.Name)
	if cfg.Database.AutoMigrate {
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
	}
	return store, func() error { return client.Disconnect(context.Background()) }, nil
}

func openGorm(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if !cfg.Database.IsGorm() {
		return nil, fmt.Errorf("driver %q has no SQL schema", cfg.Database.Driver)
	}
	return database.NewGormDB(cfg.Database, log)
}

func closeGorm(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}
