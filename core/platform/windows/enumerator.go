package windows

import (
	"context"
	"fmt"
	"strings"

	"driver-manager/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// deviceQuery describes one WMIC device class and how its rows become descriptors.
type deviceQuery struct {
	category reconcile.Category
	prefix   string
	args     []string
	name     []string
	vendor   string
	fallback string
	skip     []string
}

var deviceQueries = []deviceQuery{
	{
		category: reconcile.CategoryGPU,
		prefix:   "gpu",
		args:     []string{"path", "Win32_VideoController", "get", "Name,AdapterCompatibility,PNPDeviceID", "/format:csv"},
		name:     []string{"Name"},
		vendor:   "AdapterCompatibility",
		fallback: "Unknown GPU",
	},
	{
		category: reconcile.CategoryNetwork,
		prefix:   "network",
		args:     []string{"nic", "where", "NetEnabled=true", "get", "Name,Manufacturer,DeviceID", "/format:csv"},
		name:     []string{"Name"},
		vendor:   "Manufacturer",
		fallback: "Unknown Network Device",
	},
	{
		category: reconcile.CategoryAudio,
		prefix:   "audio",
		args:     []string{"path", "Win32_SoundDevice", "get", "Name,Manufacturer,DeviceID", "/format:csv"},
		name:     []string{"Name"},
		vendor:   "Manufacturer",
		fallback: "Unknown Audio Device",
	},
	{
		category: reconcile.CategoryStorage,
		prefix:   "storage",
		args:     []string{"diskdrive", "get", "Caption,Manufacturer,Model,DeviceID", "/format:csv"},
		name:     []string{"Caption", "Model"},
		vendor:   "Manufacturer",
		fallback: "Unknown Storage Device",
	},
	{
		category: reconcile.CategoryUSB,
		prefix:   "usb",
		args:     []string{"path", "Win32_PnPEntity", "where", "DeviceID like 'USB%'", "get", "Name,Manufacturer,DeviceID", "/format:csv"},
		name:     []string{"Name"},
		vendor:   "Manufacturer",
		fallback: "USB Device",
		skip:     []string{"Root Hub", "Composite", "Generic"},
	},
}

// Enumerator lists GPU, network, audio, storage and USB devices through WMIC.
type Enumerator struct {
	runner Runner
	logger *zap.Logger
}

var _ reconcile.Enumerator = (*Enumerator)(nil)

// NewEnumerator creates a WMIC backed device enumerator.
func NewEnumerator(runner Runner, logger *zap.Logger) *Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{runner: runner, logger: logger}
}

// EnumerateDevices runs the device class queries in parallel. A failing class
// is logged and left out; the call fails only when every class fails.
// Devices keep the order of deviceQueries.
func (e *Enumerator) EnumerateDevices(ctx context.Context) ([]reconcile.DeviceDescriptor, error) {
	results := make([][]reconcile.DeviceDescriptor, len(deviceQueries))
	errs := make([]error, len(deviceQueries))

	var g errgroup.Group
	for i, q := range deviceQueries {
		g.Go(func() error {
			results[i], errs[i] = e.query(ctx, q)
			return nil
		})
	}
	_ = g.Wait()

	devices := []reconcile.DeviceDescriptor{}
	var lastErr error
	failed := 0
	for i, q := range deviceQueries {
		if errs[i] != nil {
			failed++
			lastErr = errs[i]
			e.logger.Warn("Device query failed",
				zap.String("category", string(q.category)),
				zap.Error(errs[i]),
			)
			continue
		}
		devices = append(devices, results[i]...)
	}

	if failed == len(deviceQueries) {
		return nil, fmt.Errorf("enumerating devices: %w", lastErr)
	}
	return devices, nil
}

func (e *Enumerator) query(ctx context.Context, q deviceQuery) ([]reconcile.DeviceDescriptor, error) {
	out, err := e.runner.Output(ctx, "wmic", q.args...)
	if err != nil {
		return nil, err
	}
	t, err := parseTable(out, q.name[0])
	if err != nil {
		return nil, err
	}
	if t.skipped > 0 {
		e.logger.Warn("Skipped malformed device rows",
			zap.String("category", string(q.category)),
			zap.Int("rows", t.skipped),
		)
	}

	devices := make([]reconcile.DeviceDescriptor, 0, len(t.rows))
	for _, row := range t.rows {
		name := q.fallback
		for _, col := range q.name {
			if v := t.get(row, col); v != "" {
				name = v
				break
			}
		}
		if containsAny(name, q.skip) {
			continue
		}
		vendor := t.get(row, q.vendor)
		if vendor == "" {
			vendor = "Unknown"
		}
		devices = append(devices, reconcile.DeviceDescriptor{
			ID:           fmt.Sprintf("%s-%d", q.prefix, len(devices)),
			Category:     q.category,
			Name:         name,
			Manufacturer: vendor,
		})
	}
	return devices, nil
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
