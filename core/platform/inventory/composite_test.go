package inventory

import (
	"context"
	"errors"
	"testing"

	"driver-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEnumerator struct {
	devices []reconcile.DeviceDescriptor
	err     error
}

func (s staticEnumerator) EnumerateDevices(context.Context) ([]reconcile.DeviceDescriptor, error) {
	return s.devices, s.err
}

func TestComposite_Concatenates(t *testing.T) {
	c := NewComposite(nil,
		staticEnumerator{devices: []reconcile.DeviceDescriptor{{ID: "cpu-0", Name: "CPU"}}},
		staticEnumerator{err: errors.New("wmic missing")},
		staticEnumerator{devices: []reconcile.DeviceDescriptor{
			{ID: "gpu-0", Name: "GPU"},
			{ID: "cpu-0", Name: "Duplicate"},
		}},
	)

	devices, err := c.EnumerateDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []reconcile.DeviceDescriptor{{ID: "cpu-0", Name: "CPU"}, {ID: "gpu-0", Name: "GPU"}}, devices)
}

func TestComposite_AllFail(t *testing.T) {
	c := NewComposite(nil,
		staticEnumerator{err: reconcile.ErrIO},
		staticEnumerator{err: reconcile.ErrParse},
	)

	_, err := c.EnumerateDevices(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrParse)
}

func TestComposite_Empty(t *testing.T) {
	devices, err := NewComposite(nil).EnumerateDevices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, devices)
}
