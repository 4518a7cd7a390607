package httpx

// Config holds the outbound proxy settings.
type Config struct {
	// URL is the proxy tried before the direct route.
	URL string `mapstructure:"url" default:"http://127.0.0.1:10808"`
	// Enabled turns the proxied route on.
	Enabled bool `mapstructure:"enabled" default:"false"`
}
