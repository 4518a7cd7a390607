package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "stalcraft-database", cfg.Source.Repo)
	assert.Equal(t, "ru", cfg.Source.Region)
	assert.Equal(t, "./items", cfg.Paths.RawDir)
	assert.Equal(t, "./merged", cfg.Paths.OutDir)
	assert.Equal(t, ".last_sha", cfg.Paths.SnapshotFile)
	assert.False(t, cfg.Proxy.Enabled)
	assert.Equal(t, "items/artefact", cfg.Stats.CategoryDir)
	assert.Equal(t, 30, cfg.Sync.CooldownSeconds)
	assert.Equal(t, 8, cfg.Sync.Workers)
	assert.True(t, cfg.Sync.RefreshTranslations)
	assert.Empty(t, cfg.Listing.Ignored)
	assert.Equal(t, "http://sync-server:3001/sync", cfg.Notify.URL)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SYNC_COOLDOWN_SECONDS", "5")
	t.Setenv("SYNC_FORCE_PULL", "true")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("LISTING_IGNORED", "items/armor/device,items/misc")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sync.CooldownSeconds)
	assert.True(t, cfg.Sync.ForcePull)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, []string{"items/armor/device", "items/misc"}, cfg.Listing.Ignored)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SOURCE_BRANCH=dev\nNOTIFY_TOKEN=secret\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("SOURCE_BRANCH")
		os.Unsetenv("NOTIFY_TOKEN")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Source.Branch)
	assert.Equal(t, "secret", cfg.Notify.Token)
}

func TestBindValues(t *testing.T) {
	type inner struct {
		Names []string `mapstructure:"names" default:"a, b,,c"`
		Count int      `mapstructure:"count" default:"3"`
	}
	type outer struct {
		Inner   inner  `mapstructure:"inner"`
		Skipped string `default:"x"`
	}

	v := viper.New()
	bindValues(v, outer{}, "")

	assert.Equal(t, []string{"a", "b", "c"}, v.Get("inner.names"))
	assert.Equal(t, "3", v.Get("inner.count"))
	assert.False(t, v.IsSet("skipped"))
}

func TestSplitList(t *testing.T) {
	assert.Empty(t, splitList(""))
	assert.Equal(t, []string{"x"}, splitList(" x ,"))
}
