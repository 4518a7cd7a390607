package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"item-mirror/core/jsonfs"
	"item-mirror/core/logger"
	"item-mirror/core/snapshot"
	"item-mirror/feature/listing"
	"item-mirror/feature/merge"
	"item-mirror/feature/source"
	"item-mirror/feature/stats"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is signalled after a successful run with changes.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, runID string) error
}

// Recorder journals finished runs.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

// Options configures a pipeline.
type Options struct {
	Paths   PathsConfig
	Sync    SyncConfig
	Listing listing.Options
	Stats   stats.Config
}

// Deps are the stage implementations.
type Deps struct {
	Provider  source.Provider
	Extractor *source.Extractor
	Merger    *merge.Engine
	Lister    *listing.Aggregator
	Augmenter *stats.Augmenter
	Notifiers []Notifier
	// Recorder is optional.
	Recorder Recorder
}

// Outcome describes a finished run.
type Outcome struct {
	RunID string
	Mode  Mode
	// State is the terminal state.
	State State
	// Stages lists every state entered, in order.
	Stages    []State
	Signature string
	// Updated is set when the output tree was regenerated.
	Updated    bool
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time

	Merge   *merge.Report
	Listing *listing.Report
	Stats   *stats.Report
}

// Pipeline runs sync attempts.
type Pipeline struct {
	opts   Options
	deps   Deps
	store  *snapshot.Store
	logger *zap.Logger
	now    func() time.Time
}

// New creates a pipeline.
func New(opts Options, deps Deps, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		opts:   opts,
		deps:   deps,
		store:  snapshot.NewStore(opts.Paths.SnapshotPath()),
		logger: logger,
		now:    time.Now,
	}
}

// run is the state of one attempt. It is discarded when the attempt ends.
type run struct {
	outcome *Outcome
	logger  *zap.Logger
	base    *zap.Logger
}

func (r *run) enter(s State) {
	r.outcome.State = s
	r.outcome.Stages = append(r.outcome.Stages, s)
	r.logger = logger.ForRun(r.base, r.outcome.RunID, string(s))
	r.logger.Info("Entering stage")
}

// Run performs one attempt. Errors never escape: they end the run in
// StateFailed with Outcome.Err set.
func (p *Pipeline) Run(ctx context.Context, mode Mode) (out Outcome) {
	out = Outcome{RunID: uuid.NewString(), Mode: mode, StartedAt: p.now()}
	r := &run{outcome: &out, base: p.logger}
	r.logger = logger.ForRun(p.logger, out.RunID, "")

	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("panic: %v", rec)
		}
		if out.Err != nil {
			out.Updated = false
			failedIn := out.State
			r.enter(StateFailed)
			r.logger.Error("Sync failed", zap.String("failed_in", string(failedIn)), zap.Error(out.Err))
		}
		out.FinishedAt = p.now()
		p.finish(ctx, out, r.logger)
	}()

	if p.opts.Sync.CleanRaw {
		if err := jsonfs.RemoveAll(p.opts.Paths.RawDir); err != nil {
			out.Err = err
			return out
		}
		r.logger.Info("Cleaned raw tree", zap.String("dir", p.opts.Paths.RawDir))
	}

	if mode == ModeForced {
		r.enter(StateForcedMerge)
		if err := p.stages(ctx, r); err != nil {
			out.Err = err
			return out
		}
		out.Updated = true
		r.enter(StateDone)
		return out
	}

	sig, changed, archive, err := p.check(ctx, r)
	if err != nil {
		out.Err = err
		return out
	}
	out.Signature = sig
	if !changed {
		r.enter(StateUpToDate)
		return out
	}

	r.enter(StateExtracting)
	if _, err := p.deps.Extractor.Extract(archive, p.opts.Paths.RawDir); err != nil {
		out.Err = err
		return out
	}

	if err := p.stages(ctx, r); err != nil {
		out.Err = err
		return out
	}

	if err := p.store.Save(sig); err != nil {
		out.Err = err
		return out
	}
	out.Updated = true
	r.enter(StateDone)
	r.logger.Info("Sync finished", zap.String("signature", sig))
	return out
}

// check decides whether the upstream changed. It returns the new signature
// and, when a download was needed, the archive.
func (p *Pipeline) check(ctx context.Context, r *run) (sig string, changed bool, archive []byte, err error) {
	r.enter(StateChecking)
	stored, hasStored := p.store.Load()
	force := p.opts.Sync.ForcePull

	remote, remoteErr := p.deps.Provider.RemoteVersion(ctx)
	if remoteErr != nil {
		if ctx.Err() != nil {
			return "", false, nil, ctx.Err()
		}
		r.logger.Warn("Remote version unavailable, falling back to archive hash", zap.Error(remoteErr))
	} else {
		r.logger.Info("Versions", zap.String("stored", stored), zap.String("remote", remote))
		if hasStored && stored == remote && !force {
			return remote, false, nil, nil
		}
	}

	r.enter(StateFetching)
	archive, err = p.deps.Provider.Download(ctx)
	if err != nil {
		return "", false, nil, err
	}

	if remoteErr == nil {
		return remote, true, archive, nil
	}

	hash := jsonfs.HashBytes(archive)
	r.logger.Info("Archive hashed", zap.String("hash", hash))
	if hasStored && stored == hash && !force {
		return hash, false, nil, nil
	}
	return hash, true, archive, nil
}

// stages regenerates the output tree from the raw tree.
func (p *Pipeline) stages(ctx context.Context, r *run) error {
	paths := p.opts.Paths

	r.enter(StateMerging)
	if err := jsonfs.RemoveAll(paths.OutDir); err != nil {
		return err
	}
	mergeReport, err := p.deps.Merger.Run(ctx, paths.RawDir, paths.OutDir)
	r.outcome.Merge = mergeReport
	if err != nil {
		return err
	}
	if err := source.CopyIcons(paths.RawDir, paths.OutDir, r.logger); err != nil {
		return err
	}

	r.enter(StateListing)
	if _, err := p.deps.Lister.NormalizeIndex(paths.OutDir); err != nil {
		return err
	}
	listingReport, err := p.deps.Lister.Aggregate(paths.OutDir, p.opts.Listing)
	r.outcome.Listing = listingReport
	if err != nil {
		return err
	}

	r.enter(StateAugmenting)
	table, err := p.translations(r)
	if err != nil {
		return err
	}
	statsReport, err := p.deps.Augmenter.Augment(ctx, paths.OutDir, p.opts.Stats, stats.Options{Table: table})
	r.outcome.Stats = statsReport
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Pipeline) translations(r *run) (stats.Table, error) {
	path := p.opts.Paths.TranslationsFile
	if !p.opts.Sync.RefreshTranslations {
		return stats.LoadTable(path, r.logger), nil
	}

	table := stats.LoadTable(path, r.logger)
	fresh, err := stats.BuildTable(p.opts.Paths.OutDir, r.logger)
	if err != nil {
		return nil, err
	}
	for key, lines := range fresh {
		if table[key] == nil {
			table[key] = map[string]string{}
		}
		for lang, text := range lines {
			table[key][lang] = text
		}
	}
	if path != "" {
		if err := stats.SaveTable(path, table); err != nil {
			r.logger.Warn("Failed to save translations", zap.String("path", path), zap.Error(err))
		}
	}
	return table, nil
}

// finish notifies and journals a finished run. Failures are logged only.
func (p *Pipeline) finish(ctx context.Context, out Outcome, l *zap.Logger) {
	if out.Updated {
		for _, n := range p.deps.Notifiers {
			if err := n.Notify(ctx, out.RunID); err != nil {
				l.Warn("Notifier failed", zap.String("notifier", n.Name()), zap.Error(err))
			}
		}
	}
	if p.deps.Recorder != nil {
		if err := p.deps.Recorder.Record(ctx, out); err != nil {
			l.Warn("Failed to record run", zap.Error(err))
		}
	}
}

// Loop runs attempts separated by the cooldown until ctx is cancelled. The
// first attempt uses mode; later attempts always start at CHECKING.
func (p *Pipeline) Loop(ctx context.Context, mode Mode) error {
	cooldown := time.Duration(p.opts.Sync.CooldownSeconds) * time.Second
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	for {
		out := p.Run(ctx, mode)
		mode = ModeCheck

		switch {
		case out.Updated:
			p.logger.Info("Changes detected, publish signalled", zap.String("run_id", out.RunID))
		case out.Err == nil:
			p.logger.Info("No changes", zap.String("run_id", out.RunID))
		}

		timer := time.NewTimer(cooldown)
		select {
		case <-ctx.Done():
			timer.Stop()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}
