package windows

import (
	"context"
	"fmt"

	"driver-manager/core/reconcile"

	"go.uber.org/zap"
)

var (
	catalogArgs = []string{
		"path", "Win32_PnPSignedDriver",
		"get", "DeviceName,DriverVersion,DriverDate,Manufacturer,InfName,DeviceID,Status",
		"/format:csv",
	}
	problemArgs = []string{
		"path", "Win32_PnPEntity",
		"where", "ConfigManagerErrorCode<>0",
		"get", "Name",
		"/format:csv",
	}
)

// CatalogSource reads the signed driver catalog and the problem-device list
// through WMIC.
type CatalogSource struct {
	runner Runner
	logger *zap.Logger
}

var _ reconcile.CatalogSource = (*CatalogSource)(nil)

// NewCatalogSource creates a WMIC backed catalog source.
func NewCatalogSource(runner Runner, logger *zap.Logger) *CatalogSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogSource{runner: runner, logger: logger}
}

// FetchCatalog returns the rows of Win32_PnPSignedDriver in wmic order.
// Rows without a device name are dropped and an empty status reads "Unknown".
func (s *CatalogSource) FetchCatalog(ctx context.Context) ([]reconcile.CatalogEntry, error) {
	out, err := s.runner.Output(ctx, "wmic", catalogArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying driver catalog: %w", err)
	}

	t, err := parseTable(out, "DeviceName")
	if err != nil {
		return nil, fmt.Errorf("parsing driver catalog: %w", err)
	}
	if !t.hasHeader() || !t.has("DeviceName") {
		return nil, fmt.Errorf("driver catalog has no DeviceName column: %w", reconcile.ErrParse)
	}
	if t.skipped > 0 {
		s.logger.Warn("Skipped malformed driver catalog rows", zap.Int("rows", t.skipped))
	}

	entries := make([]reconcile.CatalogEntry, 0, len(t.rows))
	for _, row := range t.rows {
		name := t.get(row, "DeviceName")
		if name == "" {
			continue
		}
		status := t.get(row, "Status")
		if status == "" {
			status = "Unknown"
		}
		entries = append(entries, reconcile.CatalogEntry{
			DeviceName:   name,
			Manufacturer: t.get(row, "Manufacturer"),
			InfName:      t.get(row, "InfName"),
			RawDeviceID:  t.get(row, "DeviceID"),
			Version:      t.get(row, "DriverVersion"),
			Date:         t.get(row, "DriverDate"),
			Status:       status,
		})
	}

	s.logger.Debug("Driver catalog loaded", zap.Int("drivers", len(entries)))
	return entries, nil
}

// FetchProblemDeviceNames returns the names of Win32_PnPEntity rows with a
// non-zero ConfigManagerErrorCode. No matching device yields an empty list.
func (s *CatalogSource) FetchProblemDeviceNames(ctx context.Context) ([]string, error) {
	out, err := s.runner.Output(ctx, "wmic", problemArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying problem devices: %w", err)
	}

	t, err := parseTable(out, "Name")
	if err != nil {
		return nil, fmt.Errorf("parsing problem devices: %w", err)
	}
	if t.skipped > 0 {
		s.logger.Warn("Skipped malformed problem device rows", zap.Int("rows", t.skipped))
	}

	names := []string{}
	for _, row := range t.rows {
		if name := t.get(row, "Name"); name != "" {
			names = append(names, name)
		}
	}

	s.logger.Debug("Problem devices loaded", zap.Int("devices", len(names)))
	return names, nil
}
