package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"item-mirror/core/jsonfs"
	"item-mirror/feature/listing"
	"item-mirror/feature/merge"
	"item-mirror/feature/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Rebuild the published tree from the local raw tree",
	Long: `Runs the merge and listing stages offline on the local raw tree. Stats are
not injected and no notification is sent. Outputs metrics by default or the
full report with --json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		startTime := time.Now()

		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if err := jsonfs.RemoveAll(cfg.Paths.OutDir); err != nil {
			return err
		}

		mergeReport, err := merge.NewEngine(logg, cfg.Sync.Workers).Run(cmd.Context(), cfg.Paths.RawDir, cfg.Paths.OutDir)
		if err != nil {
			return fmt.Errorf("merge failed: %w", err)
		}
		if err := source.CopyIcons(cfg.Paths.RawDir, cfg.Paths.OutDir, logg); err != nil {
			return err
		}

		lister := listing.NewAggregator(logg)
		if _, err := lister.NormalizeIndex(cfg.Paths.OutDir); err != nil {
			return err
		}
		listingReport, err := lister.Aggregate(cfg.Paths.OutDir, listing.DefaultOptions(cfg.Listing))
		if err != nil {
			return fmt.Errorf("listing failed: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Merge   *merge.Report   `json:"merge"`
				Listing *listing.Report `json:"listing"`
			}{mergeReport, listingReport})
		}

		logg.Info("Merge finished",
			zap.Int("files", mergeReport.Files),
			zap.Int("merged", mergeReport.Merged),
			zap.Int("copied", mergeReport.Copied),
			zap.Int("variants", mergeReport.Variants),
			zap.Int("failures", len(mergeReport.Failures)),
			zap.Int("collisions", len(listingReport.Collisions)),
			zap.Duration("took", time.Since(startTime)),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().Bool("json", false, "Print the full report as JSON")
}
