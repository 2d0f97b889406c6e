// Package db opens the record store configured for the service.
package db

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/content-api/content-api/internal/config"
	"github.com/content-api/content-api/internal/db/dsn"
	"github.com/content-api/content-api/internal/db/models"
	gormadapter "github.com/content-api/content-api/internal/logger/adapter/gorm"
)

// Open connects gorm to the configured engine and applies the pool limits.
// The caller owns the returned handle and releases it with Close.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = mysql.Open(dsn.MySQL(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Postgres(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.SQLite(cfg))
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormadapter.New(cfg.DB.SlowThreshold),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	// sqlite allows a single writer, and every connection to :memory: is its own database
	if cfg.DB.GormEngine == config.EngineSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or upgrades the content table.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	return errors.Wrap(db.AutoMigrate(&models.Content{}), "failed to migrate database")
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	return sqlDB.Close()
}
