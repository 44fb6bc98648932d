package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "auto", cfg.Server.Platform)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "driver-reports", cfg.Storage.Bucket)
	assert.Equal(t, 60, cfg.Drivers.CatalogTTLSeconds)
	assert.Equal(t, 15, cfg.Drivers.UpdateTimeoutSeconds)
	assert.Equal(t, 30, cfg.Drivers.InstallTimeoutMinutes)
	assert.Equal(t, 5, cfg.Drivers.CandidateLimit)
	assert.Equal(t, "drivers.changed", cfg.Notify.Subject)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DRIVERS_UPDATE_TTL_SECONDS", "120")
	t.Setenv("NOTIFY_ENABLED", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 120, cfg.Drivers.UpdateTTLSeconds)
	assert.True(t, cfg.Notify.Enabled)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PLATFORM=none\nLOG_FORMAT=console\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PLATFORM")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Server.Platform)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		driver   string
		wantErr  string
	}{
		{name: "valid", platform: "windows", driver: "mysql"},
		{name: "bad platform", platform: "linux", driver: "sqlite", wantErr: "server.platform"},
		{name: "bad driver", platform: "none", driver: "postgres", wantErr: "database.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Server.Platform = tt.platform
			cfg.Database.Driver = tt.driver

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
