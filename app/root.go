// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/content-api/content-api/internal/config"
	"github.com/content-api/content-api/internal/logger"
)

var (
	configPath string        // Path to the configuration directory
	cfg        config.Config // Configuration read by loadConfig

	rootCmd = &cobra.Command{
		Use:   "content-api",
		Short: "content-api serves content records over a JSON HTTP API",
		Long: `content-api is a small HTTP service to create, read, update, delete
and search content records, each with a unique name and an optional location.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"./etc/",
		"Directory holding main.toml",
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and sets up logging.
func loadConfig(devMode bool) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}
