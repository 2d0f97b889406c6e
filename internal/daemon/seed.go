package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/content-api/content-api/internal/config"
	controller "github.com/content-api/content-api/internal/db/controller/content"
	"github.com/content-api/content-api/internal/db/models"
	"github.com/content-api/content-api/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

// SampleContents are stored by Seed.
func SampleContents() []domain.Content {
	return []domain.Content{
		{ID: 1, Name: "Acer Negundo", Location: strPtr("Floodplain")},
		{ID: 2, Name: "Salix", Location: strPtr("Banks")},
		{ID: 3, Name: "Alnus Rhombifolia", Location: strPtr("Gravel Bar")},
	}
}

// Seed stores SampleContents if the content table is empty.
func Seed(cfg *config.Config, gdb *gorm.DB) error {
	_, err := seed(context.Background(), cfg, gdb)

	return err
}

// seed reports whether rows were written.
func seed(ctx context.Context, cfg *config.Config, gdb *gorm.DB) (bool, error) {
	repo, err := controller.New(gdb)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return false, errors.Wrap(err, "seed: count contents")
	}

	if count > 0 {
		log.Debug().Int64("count", count).Msg("seed: content table not empty, skipped")
		return false, nil
	}

	samples := SampleContents()
	if err = repo.Insert(ctx, samples...); err != nil {
		return false, errors.Wrap(err, "seed: insert contents")
	}

	// explicit ids do not move the postgres sequence
	if cfg.DB.GormEngine == config.EnginePostgres {
		err = gdb.WithContext(ctx).Exec(
			"SELECT setval(pg_get_serial_sequence(?, 'id'), (SELECT MAX(id) FROM "+models.ContentTable+"))",
			models.ContentTable,
		).Error
		if err != nil {
			return false, errors.Wrap(err, "seed: advance id sequence")
		}
	}

	log.Info().Int("rows", len(samples)).Msg("seed: sample contents stored")

	return true, nil
}
