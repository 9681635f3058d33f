package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/wapi/internal/config"
	"github.com/MrSnakeDoc/wapi/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   filepath.Base(os.Args[0]),
	Short: "Cached, rate-limited client and proxy for a hosted WhatsApp API",
	Long: `wapi wraps a hosted WhatsApp messaging API.

It runs as a local pass-through HTTP proxy (serve) or executes single
operations from the command line (call, qr). Configuration comes from
WAPI_* environment variables, a .env file and an optional YAML file.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides WAPI_CONFIG_FILE)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// loadConfig applies persistent flags on top of the environment and loads
// the config and a matching logger.
func loadConfig(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv("WAPI_CONFIG_FILE", path); err != nil {
			return nil, nil, err
		}
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		if err := os.Setenv("WAPI_LOG_LEVEL", lvl); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("configuration: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}
