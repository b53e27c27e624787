package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// Open connects to the relational store. Supported drivers: "sqlite" for
// local development and tests, "postgres" for production.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Migrate creates or updates the engine's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Ingredient{},
		&domain.NutritionFact{},
		&domain.UnitConversionFactor{},
		&domain.DensityFact{},
		&domain.ContextOverrideRule{},
		&domain.DiscoveryQueueItem{},
		&domain.EtlJob{},
	)
}
