package windows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"driver-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateSource_FetchPendingUpdateTitles(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Output", mock.Anything, "powershell", argsWith("-NoProfile", "Microsoft.Update.Session", "Type='Driver'")).
		Return("NVIDIA - Display - 31.0.15.5222\r\n\r\n  Realtek - Audio - 6.0.9600.1  \r\n", nil)

	titles, err := NewUpdateSource(runner, nil).FetchPendingUpdateTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"NVIDIA - Display - 31.0.15.5222", "Realtek - Audio - 6.0.9600.1"}, titles)
}

func TestUpdateSource_Empty(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Output", mock.Anything, "powershell", mock.Anything).Return("", nil)

	titles, err := NewUpdateSource(runner, nil).FetchPendingUpdateTitles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, titles)
	assert.Empty(t, titles)
}

func TestUpdateSource_Error(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Output", mock.Anything, "powershell", mock.Anything).
		Return("", fmt.Errorf("powershell: %w: %v", reconcile.ErrIO, errors.New("exit status 1")))

	_, err := NewUpdateSource(runner, nil).FetchPendingUpdateTitles(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrIO)
}
