package cmd

import (
	"fmt"

	"item-mirror/feature/stats"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// augmentCmd represents the augment command
var augmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Inject external artefact stats into the published tree",
	Long: `Fetches artefact stats from the external service and injects them into the
published tree. Blocks injected by an earlier run are replaced, so the command
can be repeated without duplicating stats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		useProxy, _ := cmd.Flags().GetBool("proxy")

		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		if useProxy {
			cfg.Proxy.Enabled = true
		}

		statSource, err := stats.NewHTTPSource(cfg.Stats, cfg.Proxy, logg)
		if err != nil {
			return fmt.Errorf("failed to create stat source: %w", err)
		}

		augmenter := stats.NewAugmenter(statSource, logg, cfg.Sync.Workers)
		report, err := augmenter.Augment(cmd.Context(), cfg.Paths.OutDir, cfg.Stats, stats.Options{
			Table:           stats.LoadTable(cfg.Paths.TranslationsFile, logg),
			ReplaceInjected: true,
		})
		if err != nil {
			return fmt.Errorf("augmentation failed: %w", err)
		}

		logg.Info("Augmentation finished",
			zap.Int("fetched", report.Fetched),
			zap.Int("matched", report.Matched),
			zap.Int("unmatched", len(report.Unmatched)),
			zap.Int("updated", report.Updated),
			zap.Int("failures", len(report.Failures)),
			zap.Bool("skipped", report.Skipped),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(augmentCmd)
	augmentCmd.Flags().Bool("proxy", false, "Try the configured proxy before the direct route")
}
