package notify

// Config holds configuration for change notifications.
type Config struct {
	// Enabled turns on publishing of driver change events.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// URL is the NATS server URL.
	URL string `mapstructure:"url" default:"nats://127.0.0.1:4222"`
	// Subject is the subject events are published to.
	Subject string `mapstructure:"subject" default:"drivers.changed"`
	// Source identifies this host in events. Empty uses the hostname.
	Source string `mapstructure:"source" default:""`
	// TimeoutSeconds bounds the initial connection.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
