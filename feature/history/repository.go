package history

import (
	"context"
	"fmt"

	"item-mirror/feature/pipeline"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultLimit caps Recent when no limit is given.
const DefaultLimit = 20

// MaxLimit caps Recent for any caller.
const MaxLimit = 500

// Repository stores sync runs. It satisfies pipeline.Recorder.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a repository over db.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Migrate creates or updates the sync_runs table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&SyncRun{}); err != nil {
		return fmt.Errorf("migrate sync_runs: %w", err)
	}
	return nil
}

// Record journals a finished run.
func (r *Repository) Record(ctx context.Context, o pipeline.Outcome) error {
	run := FromOutcome(o)
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	r.logger.Debug("Run recorded", zap.String("run_id", run.ID), zap.String("state", run.State))
	return nil
}

// Recent returns the newest runs first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var runs []SyncRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
