package cmd

import (
	"context"
	"testing"
	"time"

	"driver-manager/core/reconcile"
	"driver-manager/feature/drivers"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFinalResult(t *testing.T) {
	initial := []drivers.DeviceStatus{
		{
			Device: reconcile.DeviceDescriptor{ID: "gpu-0", Name: "NVIDIA GeForce RTX 3060"},
			Driver: reconcile.DriverStatus{Installed: true, IsLatest: true, Status: reconcile.StatusOK},
		},
		{
			Device: reconcile.DeviceDescriptor{ID: "audio-0", Name: "Realtek Audio"},
			Driver: reconcile.DriverStatus{Status: reconcile.StatusUnknown},
		},
	}
	final := map[string]reconcile.DriverStatus{
		"gpu-0":   {Installed: true, UpdateAvailable: true, Status: reconcile.StatusOutdated},
		"audio-0": {Status: reconcile.StatusUnknown},
	}

	res := finalResult(initial, final)

	assert.False(t, res.Pending)
	assert.Equal(t, reconcile.StatusOutdated, res.Devices[0].Driver.Status)
	assert.Equal(t, reconcile.StatusUnknown, res.Devices[1].Driver.Status)
	assert.Equal(t, reconcile.Summary{Total: 2, Outdated: 1, Unknown: 1, UpdatesAvailable: 1}, res.Summary)
	// The initial slice is left untouched.
	assert.Equal(t, reconcile.StatusOK, initial[0].Driver.Status)
}

func TestConfirmDestructiveAction_AutoConfirm(t *testing.T) {
	yesConfirm = true
	t.Cleanup(func() { yesConfirm = false })

	assert.True(t, confirmDestructiveAction())
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "check", "device", "candidates", "install", "cache"} {
		assert.True(t, names[want], want)
	}
}

func TestAwaitFinal(t *testing.T) {
	initial := drivers.PassResult{
		Devices: []drivers.DeviceStatus{{
			Device: reconcile.DeviceDescriptor{ID: "gpu-0"},
			Driver: reconcile.DriverStatus{Installed: true, IsLatest: true, Status: reconcile.StatusOK},
		}},
		Summary: reconcile.Summary{Total: 1, OK: 1},
	}
	outdated := map[string]reconcile.DriverStatus{
		"gpu-0": {Installed: true, UpdateAvailable: true, Status: reconcile.StatusOutdated},
	}

	t.Run("final buffered before pending was read", func(t *testing.T) {
		final := make(chan map[string]reconcile.DriverStatus, 1)
		final <- outdated

		res := awaitFinal(context.Background(), zap.NewNop(), initial, final)
		assert.Equal(t, reconcile.StatusOutdated, res.Devices[0].Driver.Status)
	})

	t.Run("no lookup in flight", func(t *testing.T) {
		final := make(chan map[string]reconcile.DriverStatus, 1)

		res := awaitFinal(context.Background(), zap.NewNop(), initial, final)
		assert.Equal(t, initial, res)
	})

	t.Run("pending final arrives", func(t *testing.T) {
		final := make(chan map[string]reconcile.DriverStatus, 1)
		pending := initial
		pending.Pending = true
		go func() {
			time.Sleep(10 * time.Millisecond)
			final <- outdated
		}()

		res := awaitFinal(context.Background(), zap.NewNop(), pending, final)
		assert.False(t, res.Pending)
		assert.Equal(t, reconcile.StatusOutdated, res.Devices[0].Driver.Status)
	})

	t.Run("deadline keeps initial", func(t *testing.T) {
		final := make(chan map[string]reconcile.DriverStatus, 1)
		pending := initial
		pending.Pending = true
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		res := awaitFinal(ctx, zap.NewNop(), pending, final)
		assert.Equal(t, pending, res)
	})
}
