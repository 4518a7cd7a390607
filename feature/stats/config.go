package stats

// Config holds external stat service settings.
type Config struct {
	// URL is the stat service endpoint, already filtered to artefacts.
	URL string `mapstructure:"url" default:"https://sctools.tech/api/exbo/items/?category=artefact"`
	// TimeoutSeconds bounds each fetch attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// CategoryDir is the item subtree, relative to the output root, eligible for injection.
	CategoryDir string `mapstructure:"category_dir" default:"items/artefact"`
}
