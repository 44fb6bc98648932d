package matcher

import (
	"testing"

	"driver-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		device       string
		manufacturer string
		entry        reconcile.CatalogEntry
		want         int
	}{
		{
			// 50 manufacturer + 3 keywords (intel, uhd, graphics) + graphics, uhd and hd bonuses
			name:         "keyword and display bonuses",
			device:       "Intel(R) UHD Graphics 630",
			manufacturer: "Intel",
			entry:        entry("Intel UHD Graphics Family", "Intel Corporation", ""),
			want:         50 + 3*20 + 3*10,
		},
		{
			// 100 name + 50 manufacturer + 2 keywords
			name:         "identical names",
			device:       "Realtek Audio",
			manufacturer: "Realtek",
			entry:        entry("Realtek Audio", "Realtek", ""),
			want:         100 + 50 + 2*20,
		},
		{
			name:   "empty manufacturer earns nothing",
			device: "Bluetooth Radio",
			entry:  entry("Keyboard", "", ""),
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.device, tt.manufacturer, tt.entry))
		})
	}
}

func TestCandidates(t *testing.T) {
	catalog := []reconcile.CatalogEntry{
		entry("Keyboard", "Logitech", "a"),
		entry("Intel Graphics Adapter", "Intel", "b"),
		entry("Intel UHD Graphics Family", "Intel Corporation", "c"),
		entry("Intel Management Engine", "Intel", "d"),
		entry("Intel Serial IO", "Intel", "e"),
	}

	t.Run("ranked best first with positive scores only", func(t *testing.T) {
		got := Candidates("Intel(R) UHD Graphics 630", "Intel", catalog, 0)
		require.Len(t, got, 4)
		assert.Equal(t, "c", got[0].Entry.Version)
		assert.Equal(t, "b", got[1].Entry.Version)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
		}
	})

	t.Run("equal scores keep catalog order", func(t *testing.T) {
		got := Candidates("Intel(R) UHD Graphics 630", "Intel", catalog, 0)
		assert.Equal(t, "d", got[2].Entry.Version)
		assert.Equal(t, "e", got[3].Entry.Version)
	})

	t.Run("limit", func(t *testing.T) {
		got := New().Candidates("Intel(R) UHD Graphics 630", "Intel", catalog, 2)
		assert.Len(t, got, 2)
	})

	t.Run("no candidates", func(t *testing.T) {
		got := Candidates("Unrelated", "", catalog, 5)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
