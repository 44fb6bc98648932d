package inventory

import (
	"context"
	"fmt"

	"driver-manager/core/reconcile"

	"go.uber.org/zap"
)

// Composite concatenates the devices of several enumerators in order.
type Composite struct {
	enumerators []reconcile.Enumerator
	logger      *zap.Logger
}

var _ reconcile.Enumerator = (*Composite)(nil)

// NewComposite creates an enumerator over the given enumerators.
func NewComposite(logger *zap.Logger, enumerators ...reconcile.Enumerator) *Composite {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composite{enumerators: enumerators, logger: logger}
}

// EnumerateDevices implements reconcile.Enumerator. A failing enumerator is
// logged and skipped; the call fails only when all of them fail.
// Device IDs are expected to be unique across enumerators; a duplicate is
// dropped with a warning.
func (c *Composite) EnumerateDevices(ctx context.Context) ([]reconcile.DeviceDescriptor, error) {
	devices := []reconcile.DeviceDescriptor{}
	seen := make(map[string]bool)
	var lastErr error
	failed := 0

	for _, e := range c.enumerators {
		found, err := e.EnumerateDevices(ctx)
		if err != nil {
			failed++
			lastErr = err
			c.logger.Warn("Enumerator failed", zap.Error(err))
			continue
		}
		for _, d := range found {
			if seen[d.ID] {
				c.logger.Warn("Duplicate device id dropped", zap.String("device_id", d.ID))
				continue
			}
			seen[d.ID] = true
			devices = append(devices, d)
		}
	}

	if len(c.enumerators) > 0 && failed == len(c.enumerators) {
		return nil, fmt.Errorf("all enumerators failed: %w", lastErr)
	}

	c.logger.Debug("Devices enumerated", zap.Int("devices", len(devices)))
	return devices, nil
}
