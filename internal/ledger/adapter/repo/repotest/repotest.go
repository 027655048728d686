// Package repotest provides isolated in-memory sqlite stores for tests.
package repotest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xxz807/finbank/internal/ledger/adapter/repo"
	"github.com/xxz807/finbank/internal/platform/config"
	"github.com/xxz807/finbank/internal/platform/database"
)

// NewDB opens a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxIdleConns: 1, // the memory database lives as long as its connection
		LogLevel:     "silent",
	}
	db, err := database.NewGormDB(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore returns a GormStore over NewDB.
func NewStore(t testing.TB) *repo.GormStore {
	t.Helper()
	return repo.NewGormStore(NewDB(t))
}
