package controllers

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"github.com/lafayette-apps/sticky-atc/app/repository"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/database"
)

var testDBOnce sync.Once

// setupTestDB backs the handlers with an in-memory sqlite database. The
// repository factory is a process-wide singleton, so every test in the
// package shares one database and isolates itself by shop domain.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBOnce.Do(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		if err != nil {
			t.Fatalf("failed to open test database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("failed to access test database handle: %v", err)
		}
		// One connection, or each pooled conn would see its own :memory: DB
		sqlDB.SetMaxOpenConns(1)

		if err := db.AutoMigrate(
			&models.ShopSettings{},
			&models.Subscription{},
			&models.WebhookEvent{},
			&models.ShopInstall{},
		); err != nil {
			t.Fatalf("failed to migrate test database: %v", err)
		}

		database.SetDB(db)
		repository.InitializeFactory(db)
	})

	return database.GetDB()
}
