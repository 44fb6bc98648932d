package inventory

import (
	"context"
	"errors"
	"testing"

	"driver-manager/core/reconcile"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubbed(categories ...reconcile.Category) *Enumerator {
	e := New(nil, categories...)
	e.cpuInfo = func(context.Context) ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{
			{CPU: 0, VendorID: "GenuineIntel", ModelName: "11th Gen Intel(R) Core(TM) i7-1165G7 @ 2.80GHz "},
			{CPU: 1, VendorID: "GenuineIntel", ModelName: "11th Gen Intel(R) Core(TM) i7-1165G7 @ 2.80GHz "},
		}, nil
	}
	e.interfaces = func(context.Context) (net.InterfaceStatList, error) {
		return net.InterfaceStatList{
			{Name: "lo", Flags: []string{"up", "loopback"}},
			{Name: "eth0", Flags: []string{"up", "broadcast", "multicast"}},
			{Name: "wlan0", Flags: []string{"broadcast"}},
		}, nil
	}
	e.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/nvme0n1p2", Mountpoint: "/"},
			{Device: "/dev/nvme0n1p1", Mountpoint: "/boot/efi"},
			{Device: "/dev/nvme0n1p2", Mountpoint: "/home"},
		}, nil
	}
	return e
}

func TestEnumerator_AllCategories(t *testing.T) {
	devices, err := stubbed().EnumerateDevices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []reconcile.DeviceDescriptor{
		{ID: "cpu-0", Category: reconcile.CategoryCPU, Name: "11th Gen Intel(R) Core(TM) i7-1165G7 @ 2.80GHz", Manufacturer: "Intel"},
		{ID: "network-0", Category: reconcile.CategoryNetwork, Name: "eth0", Manufacturer: "Network Adapter"},
		{ID: "network-1", Category: reconcile.CategoryNetwork, Name: "wlan0", Manufacturer: "Network Adapter"},
		{ID: "storage-0", Category: reconcile.CategoryStorage, Name: "/dev/nvme0n1p2", Manufacturer: "Unknown"},
		{ID: "storage-1", Category: reconcile.CategoryStorage, Name: "/dev/nvme0n1p1", Manufacturer: "Unknown"},
	}, devices)
}

func TestEnumerator_RestrictedCategories(t *testing.T) {
	devices, err := stubbed(reconcile.CategoryCPU).EnumerateDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "cpu-0", devices[0].ID)
}

func TestEnumerator_UnknownVendor(t *testing.T) {
	e := stubbed(reconcile.CategoryCPU)
	e.cpuInfo = func(context.Context) ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{VendorID: "ARM", ModelName: ""}}, nil
	}

	devices, err := e.EnumerateDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ARM", devices[0].Manufacturer)
	assert.Equal(t, "Unknown CPU", devices[0].Name)
}

func TestEnumerator_PartialFailure(t *testing.T) {
	e := stubbed()
	e.interfaces = func(context.Context) (net.InterfaceStatList, error) {
		return nil, errors.New("netlink: permission denied")
	}

	devices, err := e.EnumerateDevices(context.Background())
	require.NoError(t, err)
	for _, d := range devices {
		assert.NotEqual(t, reconcile.CategoryNetwork, d.Category)
	}
	assert.Len(t, devices, 3)
}

func TestEnumerator_AllFail(t *testing.T) {
	e := stubbed(reconcile.CategoryCPU, reconcile.CategoryStorage)
	e.cpuInfo = func(context.Context) ([]cpu.InfoStat, error) { return nil, errors.New("no /proc") }
	e.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) { return nil, errors.New("no mounts") }

	devices, err := e.EnumerateDevices(context.Background())
	assert.Nil(t, devices)
	assert.ErrorIs(t, err, reconcile.ErrIO)
}
