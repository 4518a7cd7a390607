package publish

// Config holds publish notifier settings.
type Config struct {
	// URL is the publish server endpoint.
	URL string `mapstructure:"url" default:"http://sync-server:3001/sync"`
	// Token is sent in the x-sync-token header. An empty token disables the notifier.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds the notification request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
