package config

import (
	"reflect"
	"strings"

	"item-mirror/core/database"
	"item-mirror/core/httpx"
	"item-mirror/core/logger"
	"item-mirror/core/server"
	"item-mirror/core/storage"
	"item-mirror/feature/listing"
	"item-mirror/feature/pipeline"
	"item-mirror/feature/publish"
	"item-mirror/feature/source"
	"item-mirror/feature/stats"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that use them.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Server holds configuration for the publish server.
	Server server.Config `mapstructure:"server"`
	// Source locates the upstream item database.
	Source source.Config `mapstructure:"source"`
	// Paths locates the raw and published trees.
	Paths pipeline.PathsConfig `mapstructure:"paths"`
	// Proxy holds the optional outbound proxy.
	Proxy httpx.Config `mapstructure:"proxy"`
	// Stats holds the external stat service settings.
	Stats stats.Config `mapstructure:"stats"`
	// Sync tunes the sync loop.
	Sync pipeline.SyncConfig `mapstructure:"sync"`
	// Listing holds bundle aggregation settings.
	Listing listing.Config `mapstructure:"listing"`
	// Notify holds the publish notifier settings.
	Notify publish.Config `mapstructure:"notify"`
	// Storage holds configuration for the object storage mirror.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the run journal.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_COOLDOWN_SECONDS -> sync.cooldown_seconds)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags. Slice defaults are comma separated.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		if field.Type.Kind() == reflect.Slice {
			v.SetDefault(key, splitList(defaultValue))
			continue
		}
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
