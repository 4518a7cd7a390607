package source

import (
	"fmt"
	"strings"
)

// Config holds upstream repository settings.
type Config struct {
	// Owner is the GitHub account owning the item database.
	Owner string `mapstructure:"owner" default:"EXBO-Studio"`
	// Repo is the repository name.
	Repo string `mapstructure:"repo" default:"stalcraft-database"`
	// Branch is the branch mirrored.
	Branch string `mapstructure:"branch" default:"main"`
	// Region is the top-level data folder extracted from the archive.
	Region string `mapstructure:"region" default:"ru"`
	// Token is an optional GitHub token sent with every request.
	Token string `mapstructure:"token" default:""`
	// APIURL is the GitHub API base.
	APIURL string `mapstructure:"api_url" default:"https://api.github.com"`
	// ArchiveURL is the GitHub web base serving branch archives.
	ArchiveURL string `mapstructure:"archive_url" default:"https://github.com"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
	// RetryMaxElapsedSeconds bounds the download retries on one route.
	RetryMaxElapsedSeconds int `mapstructure:"retry_max_elapsed_seconds" default:"60"`
}

// CommitURL returns the API endpoint resolving the branch head commit.
func (c Config) CommitURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/commits/%s", strings.TrimRight(c.APIURL, "/"), c.Owner, c.Repo, c.Branch)
}

// ZipURL returns the branch archive URL.
func (c Config) ZipURL() string {
	return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", strings.TrimRight(c.ArchiveURL, "/"), c.Owner, c.Repo, c.Branch)
}

// ArchiveRoot returns the archive folder holding the region data, with a trailing slash.
func (c Config) ArchiveRoot() string {
	return fmt.Sprintf("%s-%s/%s/", c.Repo, c.Branch, c.Region)
}
