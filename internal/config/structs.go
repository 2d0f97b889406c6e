package config

import (
	"github.com/content-api/content-api/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// RateLimit implements per client ip request limiting.
type RateLimit struct {
	Enabled           bool    // false = no limiting at all
	RequestsPerSecond float64 // sustained rate per client ip
	Burst             int     // bucket size per client ip
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool      // disable recover middleware
	Port           int       // listening port for the webserver
	ShutDownTime   int       // wait time for shutdown in seconds
	RateLimit      RateLimit // rate limit settings
}
