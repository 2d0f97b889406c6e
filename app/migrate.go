package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/content-api/content-api/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the content table",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig(false)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		gdb, err := db.Open(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		defer func() {
			_ = db.Close(gdb)
		}()

		if err = db.Migrate(gdb); err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Str("db", cfg.DB.Name).Msg("database migrated")

		return nil
	},
}
