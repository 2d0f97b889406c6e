// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/content-api/content-api/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(cfg)
	case config.EngineSQLite:
		return SQLite(cfg)
	default:
		return MySQL(cfg)
	}
}

// MySQL builds a go-sql-driver/mysql DSN.
func MySQL(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}

// Postgres builds a pgx keyword/value DSN, Extras is appended as is (e.g. "sslmode=disable").
func Postgres(cfg *config.Config) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
	)

	if cfg.DB.Extras != "" {
		out += " " + cfg.DB.Extras
	}

	return out
}

// SQLite uses Name as the database file, Extras as its query parameters.
func SQLite(cfg *config.Config) string {
	if cfg.DB.Extras == "" {
		return cfg.DB.Name
	}

	return cfg.DB.Name + "?" + cfg.DB.Extras
}
