package inventory

import (
	"context"
	"fmt"
	"strings"

	"driver-manager/core/reconcile"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"
)

// vendorNames maps CPUID vendor strings to manufacturer names.
var vendorNames = map[string]string{
	"GenuineIntel": "Intel",
	"AuthenticAMD": "AMD",
	"CentaurHauls": "VIA",
	"HygonGenuine": "Hygon",
}

// Enumerator lists CPU, network and storage devices through gopsutil.
type Enumerator struct {
	include map[reconcile.Category]bool
	logger  *zap.Logger

	cpuInfo    func(ctx context.Context) ([]cpu.InfoStat, error)
	interfaces func(ctx context.Context) (net.InterfaceStatList, error)
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
}

var _ reconcile.Enumerator = (*Enumerator)(nil)

// New creates an enumerator restricted to the given categories. No category
// means CPU, network and storage.
func New(logger *zap.Logger, categories ...reconcile.Category) *Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(categories) == 0 {
		categories = []reconcile.Category{reconcile.CategoryCPU, reconcile.CategoryNetwork, reconcile.CategoryStorage}
	}
	include := make(map[reconcile.Category]bool, len(categories))
	for _, c := range categories {
		include[c] = true
	}
	return &Enumerator{
		include:    include,
		logger:     logger,
		cpuInfo:    cpu.InfoWithContext,
		interfaces: net.InterfacesWithContext,
		partitions: disk.PartitionsWithContext,
	}
}

// EnumerateDevices implements reconcile.Enumerator. A failing category is
// logged and left out; the call fails only when every category fails.
func (e *Enumerator) EnumerateDevices(ctx context.Context) ([]reconcile.DeviceDescriptor, error) {
	steps := []struct {
		category reconcile.Category
		list     func(context.Context) ([]reconcile.DeviceDescriptor, error)
	}{
		{reconcile.CategoryCPU, e.cpus},
		{reconcile.CategoryNetwork, e.networks},
		{reconcile.CategoryStorage, e.storage},
	}

	devices := []reconcile.DeviceDescriptor{}
	var lastErr error
	ran, failed := 0, 0

	for _, s := range steps {
		if !e.include[s.category] {
			continue
		}
		ran++
		found, err := s.list(ctx)
		if err != nil {
			failed++
			lastErr = err
			e.logger.Warn("Device inventory failed",
				zap.String("category", string(s.category)),
				zap.Error(err),
			)
			continue
		}
		devices = append(devices, found...)
	}

	if ran > 0 && failed == ran {
		return nil, fmt.Errorf("enumerating devices: %w", lastErr)
	}
	return devices, nil
}

func (e *Enumerator) cpus(ctx context.Context) ([]reconcile.DeviceDescriptor, error) {
	infos, err := e.cpuInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading cpu info: %w: %v", reconcile.ErrIO, err)
	}
	if len(infos) == 0 {
		return []reconcile.DeviceDescriptor{}, nil
	}

	info := infos[0]
	vendor, ok := vendorNames[info.VendorID]
	if !ok {
		vendor = info.VendorID
	}
	if vendor == "" {
		vendor = "Unknown"
	}
	name := strings.TrimSpace(info.ModelName)
	if name == "" {
		name = "Unknown CPU"
	}
	return []reconcile.DeviceDescriptor{{
		ID:           "cpu-0",
		Category:     reconcile.CategoryCPU,
		Name:         name,
		Manufacturer: vendor,
	}}, nil
}

func (e *Enumerator) networks(ctx context.Context) ([]reconcile.DeviceDescriptor, error) {
	ifaces, err := e.interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing network interfaces: %w: %v", reconcile.ErrIO, err)
	}

	devices := []reconcile.DeviceDescriptor{}
	for _, iface := range ifaces {
		if isLoopback(iface.Flags) {
			continue
		}
		devices = append(devices, reconcile.DeviceDescriptor{
			ID:           fmt.Sprintf("network-%d", len(devices)),
			Category:     reconcile.CategoryNetwork,
			Name:         iface.Name,
			Manufacturer: "Network Adapter",
		})
	}
	return devices, nil
}

func (e *Enumerator) storage(ctx context.Context) ([]reconcile.DeviceDescriptor, error) {
	parts, err := e.partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w: %v", reconcile.ErrIO, err)
	}

	seen := make(map[string]bool, len(parts))
	devices := []reconcile.DeviceDescriptor{}
	for _, p := range parts {
		if p.Device == "" || seen[p.Device] {
			continue
		}
		seen[p.Device] = true
		devices = append(devices, reconcile.DeviceDescriptor{
			ID:           fmt.Sprintf("storage-%d", len(devices)),
			Category:     reconcile.CategoryStorage,
			Name:         p.Device,
			Manufacturer: "Unknown",
		})
	}
	return devices, nil
}

func isLoopback(flags []string) bool {
	for _, f := range flags {
		if f == "loopback" {
			return true
		}
	}
	return false
}
