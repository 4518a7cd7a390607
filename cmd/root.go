package cmd

import (
	"fmt"
	"os"

	"item-mirror/core/config"
	"item-mirror/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "item-mirror",
	Short: "Item database mirror",
	Long: `Item Mirror keeps a merged copy of the upstream game item database.
It downloads the branch archive, folds variant stats into canonical items,
builds listing bundles, injects external artefact stats and signals the
publish server when the output changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Debug level gives ISO8601 timestamps for CLI output.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg, nil
}
