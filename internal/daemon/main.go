// Package daemon owns the process lifecycle: store, schema, web service.
package daemon

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/content-api/content-api/internal/config"
	"github.com/content-api/content-api/internal/db"
	"github.com/content-api/content-api/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// New opens the store, migrates the schema, seeds it when configured and
// builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	d, err := newWithDB(cfg, gdb)
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	return d, nil
}

func newWithDB(cfg *config.Config, gdb *gorm.DB) (*Daemon, error) {
	if err := db.Migrate(gdb); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if cfg.DB.Seed {
		if err := Seed(cfg, gdb); err != nil {
			return nil, err
		}
	}

	webService, err := web.New(cfg, gdb)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		webService: webService,
	}, nil
}

// Start serves http until SIGINT or SIGTERM, then releases the store.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	if errClose := db.Close(d.db); errClose != nil {
		log.Error().Err(errClose).Msg("failed to close database")
	}

	return err //nolint:wrapcheck
}
