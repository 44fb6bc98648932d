package server_test

import (
	"testing"

	"driver-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidPlatform(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		want     bool
	}{
		{"Auto", server.PlatformAuto, true},
		{"Windows", server.PlatformWindows, true},
		{"None", server.PlatformNone, true},
		{"Invalid", "linux", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Platform: tt.platform}
			assert.Equal(t, tt.want, c.IsValidPlatform())
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		goos     string
		want     string
	}{
		{"Auto on Windows", server.PlatformAuto, "windows", server.PlatformWindows},
		{"Auto on Linux", server.PlatformAuto, "linux", server.PlatformNone},
		{"Forced none on Windows", server.PlatformNone, "windows", server.PlatformNone},
		{"Forced windows", server.PlatformWindows, "darwin", server.PlatformWindows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Platform: tt.platform}
			assert.Equal(t, tt.want, c.Resolve(tt.goos))
		})
	}
}
