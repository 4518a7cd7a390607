// Package config provides configuration management for the item mirror.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section, so every key can be overridden by SECTION_KEY environment variables.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Log: logging level and format
//   - Server: publish server port, token, lock and git settings
//   - Source: upstream GitHub repository, branch and region
//   - Paths: raw tree, published tree, snapshot and translation files
//   - Proxy: optional outbound proxy tried before the direct route
//   - Stats: external stat service endpoint
//   - Sync: cooldown, force pull, clean raw and worker count
//   - Listing: folders excluded from the bundles
//   - Notify: publish server endpoint and token
//   - Storage: S3/MinIO mirror of the published tree
//   - Database: optional run journal
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Paths.OutDir)
package config
