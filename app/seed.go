package app

import (
	"github.com/spf13/cobra"

	"github.com/content-api/content-api/internal/daemon"
	"github.com/content-api/content-api/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the sample contents if the content table is empty",
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

		return daemon.Seed(&cfg, gdb) //nolint:wrapcheck
	},
}
