package matcher

import (
	"testing"

	"driver-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(name, mfg, version string) reconcile.CatalogEntry {
	return reconcile.CatalogEntry{DeviceName: name, Manufacturer: mfg, Version: version}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"trademark and short tokens", "Intel(R) UHD Graphics 630", []string{"intel", "uhd", "graphics", "630"}},
		{"parentheses become separators", "Realtek PCIe GbE Family Controller (2)", []string{"realtek", "pcie", "gbe", "family", "controller"}},
		{"symbol trademarks", "AMD Radeon™ RX 6800®", []string{"amd", "radeon", "6800"}},
		{"punctuation", "Wi-Fi 6 AX201 160MHz", []string{"ax201", "160mhz"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.in))
		})
	}
}

func TestTiered_Match(t *testing.T) {
	tests := []struct {
		name         string
		device       string
		manufacturer string
		catalog      []reconcile.CatalogEntry
		wantFound    bool
		wantVersion  string
	}{
		{
			name:         "exact match",
			device:       "NVIDIA GeForce RTX 3080",
			manufacturer: "NVIDIA",
			catalog:      []reconcile.CatalogEntry{entry("NVIDIA GeForce RTX 3080", "NVIDIA", "1.2.3")},
			wantFound:    true,
			wantVersion:  "1.2.3",
		},
		{
			name:        "exact match ignores case",
			device:      "realtek high definition audio",
			catalog:     []reconcile.CatalogEntry{entry("Realtek High Definition Audio", "Realtek", "6.0")},
			wantFound:   true,
			wantVersion: "6.0",
		},
		{
			name:        "device name contained in entry",
			device:      "Realtek Audio",
			catalog:     []reconcile.CatalogEntry{entry("Realtek Audio Device (SST)", "Realtek", "7.1")},
			wantFound:   true,
			wantVersion: "7.1",
		},
		{
			name:        "entry name contained in device",
			device:      "Intel Wi-Fi 6 AX201 160MHz",
			catalog:     []reconcile.CatalogEntry{entry("Wi-Fi 6 AX201", "Intel", "22.1")},
			wantFound:   true,
			wantVersion: "22.1",
		},
		{
			name:         "keyword tier with manufacturer",
			device:       "Intel(R) UHD Graphics 630",
			manufacturer: "Intel",
			catalog: []reconcile.CatalogEntry{
				entry("Realtek Audio", "Realtek", "1"),
				entry("Intel UHD Graphics Family", "Intel Corporation", "27.20"),
			},
			wantFound:   true,
			wantVersion: "27.20",
		},
		{
			name:    "keyword tier needs two points",
			device:  "Generic Bluetooth Radio",
			catalog: []reconcile.CatalogEntry{entry("Bluetooth LE Enumerator", "Microsoft", "10")},
		},
		{
			name:         "display fallback",
			device:       "AMD Radeon Graphics",
			manufacturer: "Advanced Micro Devices, Inc.",
			catalog: []reconcile.CatalogEntry{
				entry("Standard Display Adapter", "Advanced Micro Devices, Inc.", "31.0"),
			},
			wantFound:   true,
			wantVersion: "31.0",
		},
		{
			name:         "display fallback only for display devices",
			device:       "AMD Ryzen Chipset",
			manufacturer: "Advanced Micro Devices, Inc.",
			catalog: []reconcile.CatalogEntry{
				entry("Standard Display Adapter", "Advanced Micro Devices, Inc.", "31.0"),
			},
		},
		{
			name:    "empty device name never matches",
			device:  "",
			catalog: []reconcile.CatalogEntry{entry("Anything", "", "1")},
		},
		{
			name:        "empty catalog names are skipped",
			device:      "USB Root Hub",
			catalog:     []reconcile.CatalogEntry{entry("", "", "0"), entry("USB Root Hub (USB 3.0)", "", "2")},
			wantFound:   true,
			wantVersion: "2",
		},
		{
			name:    "no match",
			device:  "Some Device",
			catalog: []reconcile.CatalogEntry{entry("Other Thing", "Acme", "1")},
		},
	}

	m := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.device, tt.manufacturer, tt.catalog)
			require.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.wantVersion, got.Version)
			}
		})
	}
}

func TestTiered_Match_EarlierTierWins(t *testing.T) {
	catalog := []reconcile.CatalogEntry{
		entry("Intel UHD Graphics 630 Family", "Intel", "contains"),
		entry("INTEL UHD GRAPHICS 630", "Intel", "exact"),
	}

	got, ok := New().Match("Intel UHD Graphics 630", "Intel", catalog)
	require.True(t, ok)
	assert.Equal(t, "exact", got.Version)
}

func TestTiered_Match_TieBreakIsCatalogOrder(t *testing.T) {
	catalog := []reconcile.CatalogEntry{
		entry("realtek audio", "Realtek", "first"),
		entry("REALTEK AUDIO", "Realtek", "second"),
	}

	m := New()
	for i := 0; i < 10; i++ {
		got, ok := m.Match("Realtek Audio", "Realtek", catalog)
		require.True(t, ok)
		assert.Equal(t, "first", got.Version)
	}
}
