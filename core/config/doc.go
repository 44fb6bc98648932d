// Package config provides configuration management for the Driver Manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section and are registered by reflection so every key can be overridden
// from the environment (e.g. DRIVERS_CATALOG_TTL_SECONDS -> drivers.catalog_ttl_seconds).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, driver platform)
//   - Log: Logging level and format
//   - Database: optional history database (sqlite or mysql)
//   - Storage: optional S3/MinIO report archive
//   - Drivers: catalog and update cache TTLs, lookup and install timeouts
//   - Notify: optional NATS change notifications
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
