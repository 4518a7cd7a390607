package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"item-mirror/core/config"
	"item-mirror/core/database"
	"item-mirror/core/storage"
	"item-mirror/feature/history"
	"item-mirror/feature/listing"
	"item-mirror/feature/merge"
	"item-mirror/feature/pipeline"
	"item-mirror/feature/publish"
	"item-mirror/feature/source"
	"item-mirror/feature/stats"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the sync loop",
	Long: `Checks the upstream branch, and when it changed downloads, extracts, merges,
aggregates and augments the item tree, then signals the publish server.
Runs forever with a cooldown between attempts unless --no-loop is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noLoop, _ := cmd.Flags().GetBool("no-loop")
		forceMerge, _ := cmd.Flags().GetBool("force-merge")
		useProxy, _ := cmd.Flags().GetBool("proxy")

		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		if useProxy {
			cfg.Proxy.Enabled = true
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := buildPipeline(cfg, logg)
		if err != nil {
			return err
		}

		mode := pipeline.ModeCheck
		if forceMerge {
			mode = pipeline.ModeForced
		}

		if noLoop {
			out := p.Run(ctx, mode)
			if out.Err != nil {
				return fmt.Errorf("sync run %s failed: %w", out.RunID, out.Err)
			}
			logg.Info("Sync run finished", zap.String("state", string(out.State)), zap.Bool("updated", out.Updated))
			return nil
		}

		logg.Info("Starting sync loop", zap.Int("cooldown_seconds", cfg.Sync.CooldownSeconds), zap.String("mode", string(mode)))
		return p.Loop(ctx, mode)
	},
}

// buildPipeline wires every stage from cfg. The bucket mirror and the run
// journal are attached only when enabled.
func buildPipeline(cfg *config.Config, logg *zap.Logger) (*pipeline.Pipeline, error) {
	provider, err := source.NewGitHub(cfg.Source, cfg.Proxy, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive provider: %w", err)
	}
	statSource, err := stats.NewHTTPSource(cfg.Stats, cfg.Proxy, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create stat source: %w", err)
	}

	deps := pipeline.Deps{
		Provider:  provider,
		Extractor: source.NewExtractor(cfg.Source, logg),
		Merger:    merge.NewEngine(logg, cfg.Sync.Workers),
		Lister:    listing.NewAggregator(logg),
		Augmenter: stats.NewAugmenter(statSource, logg, cfg.Sync.Workers),
		Notifiers: []pipeline.Notifier{publish.NewHTTPNotifier(cfg.Notify, logg)},
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		deps.Notifiers = append(deps.Notifiers, publish.NewBucketMirror(client, cfg.Storage, cfg.Paths.OutDir, cfg.Sync.Workers, logg))
		logg.Info("Bucket mirror enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, runs will not be journaled", zap.Error(err))
		} else {
			repo := history.NewRepository(db, logg)
			if err := repo.Migrate(); err != nil {
				logg.Warn("Run journal migration failed", zap.Error(err))
			} else {
				deps.Recorder = repo
				logg.Info("Run journal enabled", zap.String("driver", cfg.Database.Driver))
			}
		}
	}

	opts := pipeline.Options{
		Paths:   cfg.Paths,
		Sync:    cfg.Sync,
		Listing: listing.DefaultOptions(cfg.Listing),
		Stats:   cfg.Stats,
	}
	return pipeline.New(opts, deps, logg), nil
}

func init() {
	RootCmd.AddCommand(startCmd)
	startCmd.Flags().Bool("no-loop", false, "Run a single attempt and exit")
	startCmd.Flags().Bool("force-merge", false, "Skip the upstream check on the first attempt and rebuild from the local raw tree")
	startCmd.Flags().Bool("proxy", false, "Try the configured proxy before the direct route")
}
