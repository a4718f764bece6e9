package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourname/gdrive_lite/internal/config"
	"github.com/yourname/gdrive_lite/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "gdrive",
	Short:         "Streaming file upload server and client",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default $CONFIG_PATH or ./config.yaml)")
}

// loadConfig читает конфигурацию и ставит логгер по умолчанию.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr))
	return cfg, nil
}
