package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/config"
)

var (
	configPath string
	logLevel   string
)

func main() {
	// Missing .env is fine; keys may come from the real environment.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "deskrouter",
		Short:        "Routes free-text queries across company departments",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(), newAskCmd(), newRouteCmd(), newIngestCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger.Setup(logger.ParseLevel(cfg.Log.Level), os.Stderr, cfg.Log.JSON)
	return cfg, nil
}
