package history

import (
	"strings"
	"time"

	"item-mirror/feature/pipeline"
)

// SyncRun is one journaled sync attempt.
type SyncRun struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Mode       string    `gorm:"column:mode;type:varchar(16)" json:"mode"`
	State      string    `gorm:"column:state;type:varchar(16);index" json:"state"`
	Stages     string    `gorm:"column:stages;type:varchar(255)" json:"stages"`
	Signature  string    `gorm:"column:signature;type:varchar(64)" json:"signature"`
	Updated    bool      `gorm:"column:updated" json:"updated"`
	Error      string    `gorm:"column:error;type:text" json:"error,omitempty"`
	Merged     int       `gorm:"column:merged" json:"merged"`
	Variants   int       `gorm:"column:variants" json:"variants"`
	Collisions int       `gorm:"column:collisions" json:"collisions"`
	Augmented  int       `gorm:"column:augmented" json:"augmented"`
	StartedAt  time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at" json:"finished_at"`
	DurationMs int64     `gorm:"column:duration_ms" json:"duration_ms"`
}

// TableName overrides the gorm table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// FromOutcome flattens a pipeline outcome into a journal row.
func FromOutcome(o pipeline.Outcome) SyncRun {
	stages := make([]string, len(o.Stages))
	for i, s := range o.Stages {
		stages[i] = string(s)
	}

	run := SyncRun{
		ID:         o.RunID,
		Mode:       string(o.Mode),
		State:      string(o.State),
		Stages:     strings.Join(stages, ","),
		Signature:  o.Signature,
		Updated:    o.Updated,
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
		DurationMs: o.FinishedAt.Sub(o.StartedAt).Milliseconds(),
	}
	if o.Err != nil {
		run.Error = o.Err.Error()
	}
	if o.Merge != nil {
		run.Merged = o.Merge.Merged
		run.Variants = o.Merge.Variants
	}
	if o.Listing != nil {
		run.Collisions = len(o.Listing.Collisions)
	}
	if o.Stats != nil {
		run.Augmented = o.Stats.Updated
	}
	return run
}
