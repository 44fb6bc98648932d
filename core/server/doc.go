// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the supported driver platforms.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, and the driver platform
// (auto, windows, none).
//
// # Platforms
//
// "windows" queries WMI and Windows Update. "none" enumerates hardware through
// gopsutil and reports every device against an empty catalog. "auto" picks one
// from the host OS.
package server
