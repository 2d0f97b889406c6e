package config

import "time"

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // database name, or the file path for sqlite
	GormEngine      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration // queries slower than this are logged as warnings
	Seed            bool          // insert the sample rows on start if the table is empty
}
