package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// Platform selects the driver collaborators (auto, windows, none).
	Platform string `mapstructure:"platform" default:"auto"`
}

const (
	PlatformAuto    = "auto"
	PlatformWindows = "windows"
	PlatformNone    = "none"
)

// IsValidPlatform checks if the configured platform is valid.
func (c Config) IsValidPlatform() bool {
	switch c.Platform {
	case PlatformAuto, PlatformWindows, PlatformNone:
		return true
	default:
		return false
	}
}

// Resolve returns the concrete platform for the given GOOS.
// "auto" selects windows on Windows hosts and none elsewhere.
func (c Config) Resolve(goos string) string {
	if c.Platform != PlatformAuto {
		return c.Platform
	}
	if goos == "windows" {
		return PlatformWindows
	}
	return PlatformNone
}
