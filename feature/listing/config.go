package listing

// Config holds listing aggregation settings.
type Config struct {
	// Ignored lists folders, relative to the output root, excluded from every bundle.
	Ignored []string `mapstructure:"ignored" default:""`
}

// Options describes which bundles to build.
type Options struct {
	// Groups maps a bundle name to the folders, relative to the output root, it collects.
	Groups map[string][]string
	// ArrayBundles names the bundles written as arrays instead of maps.
	ArrayBundles []string
	// Ignored lists folders, relative to the output root, never collected.
	Ignored []string
}

// DefaultOptions returns the bundle layout published downstream.
func DefaultOptions(cfg Config) Options {
	return Options{
		Groups: map[string][]string{
			"weapon": {"items/weapon"},
			"armor": {
				"items/armor/scientist",
				"items/armor/combat",
				"items/armor/combined",
				"items/armor/clothes",
			},
			"artefact":    {"items/artefact"},
			"consumables": {"items/food", "items/drink", "items/medicine"},
			"containers":  {"items/containers", "items/backpacks"},
		},
		ArrayBundles: []string{"consumables", "containers"},
		Ignored:      cfg.Ignored,
	}
}
