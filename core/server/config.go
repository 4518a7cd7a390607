package server

import "path/filepath"

// Config holds configuration for the publish server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"3001"`
	// Token is the shared secret expected in the x-sync-token header.
	Token string `mapstructure:"token" default:""`
	// LockPath is the advisory lock file serialising publishes.
	LockPath string `mapstructure:"lock_path" default:"/tmp/sync.lock"`
	// RepoDir is the git working tree holding the published output.
	RepoDir string `mapstructure:"repo_dir" default:"/repo"`
	// PublishPath is the directory, relative to RepoDir, that gets committed.
	PublishPath string `mapstructure:"publish_path" default:"merged"`
	// Remote is the git remote pushed to.
	Remote string `mapstructure:"remote" default:"origin"`
	// Branch is the git branch pushed to.
	Branch string `mapstructure:"branch" default:"main"`
}

// TokenHeader carries the shared publish secret.
const TokenHeader = "x-sync-token"

// IsProtected reports whether publish requests must present a token.
func (c Config) IsProtected() bool {
	return c.Token != ""
}

// PublishDir returns the absolute directory committed on publish.
func (c Config) PublishDir() string {
	return filepath.Join(c.RepoDir, c.PublishPath)
}
