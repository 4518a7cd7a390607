package pipeline

import "path/filepath"

// PathsConfig locates the working trees.
type PathsConfig struct {
	// RawDir receives the extracted upstream tree.
	RawDir string `mapstructure:"raw_dir" default:"./items"`
	// OutDir receives the published tree.
	OutDir string `mapstructure:"out_dir" default:"./merged"`
	// SnapshotFile stores the last published signature, relative to RawDir unless absolute.
	SnapshotFile string `mapstructure:"snapshot_file" default:".last_sha"`
	// TranslationsFile is the stat translation table.
	TranslationsFile string `mapstructure:"translations_file" default:"./translations.json"`
}

// SnapshotPath resolves SnapshotFile against RawDir.
func (c PathsConfig) SnapshotPath() string {
	if filepath.IsAbs(c.SnapshotFile) {
		return c.SnapshotFile
	}
	return filepath.Join(c.RawDir, c.SnapshotFile)
}

// SyncConfig tunes the sync loop.
type SyncConfig struct {
	// CooldownSeconds is the idle wait between two attempts.
	CooldownSeconds int `mapstructure:"cooldown_seconds" default:"30"`
	// ForcePull re-downloads and re-extracts even when the signature is unchanged.
	ForcePull bool `mapstructure:"force_pull" default:"false"`
	// CleanRaw deletes the raw tree, snapshot included, before every attempt.
	CleanRaw bool `mapstructure:"clean_raw" default:"false"`
	// Workers bounds per-file parallelism inside a stage.
	Workers int `mapstructure:"workers" default:"8"`
	// RefreshTranslations rebuilds the translation table from the merged tree before augmenting.
	RefreshTranslations bool `mapstructure:"refresh_translations" default:"true"`
}
