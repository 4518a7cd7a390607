package cmd

import (
	"fmt"

	"item-mirror/feature/stats"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// translationsCmd represents the translations command
var translationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "Build the stat translation table from the published tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.Paths.TranslationsFile
		}

		table, err := stats.BuildTable(cfg.Paths.OutDir, logg)
		if err != nil {
			return fmt.Errorf("failed to build translations: %w", err)
		}
		if err := stats.SaveTable(out, table); err != nil {
			return fmt.Errorf("failed to save translations: %w", err)
		}

		logg.Info("Translations written", zap.String("path", out), zap.Int("keys", len(table)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(translationsCmd)
	translationsCmd.Flags().String("out", "", "Output file (defaults to paths.translations_file)")
}
