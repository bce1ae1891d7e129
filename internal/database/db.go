package database

import (
	"fmt"
	"os"
	"path/filepath"

	"taxclarity/internal/logger"
	"taxclarity/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in migration order.
var Models = []interface{}{
	&model.TaxProfile{},
	&model.TaxRule{},
	&model.ActionItemTemplate{},
	&model.UserActionItem{},
	&model.NotificationDevice{},
	&model.NotificationHistory{},
	&model.AuditLog{},
}

// NewConnection opens a GORM connection for the given driver ("postgres" or
// "sqlite") and auto-migrates the core models.
func NewConnection(driver, dsn string, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	if err := db.AutoMigrate(Models...); err != nil {
		if log != nil {
			log.Warn("failed to auto-migrate models", "error", err)
		}
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}
