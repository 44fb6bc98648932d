package windows

import (
	"context"
	"errors"
	"testing"
	"time"

	"driver-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type progressStep struct {
	message string
	percent int
}

func recordProgress(steps *[]progressStep) reconcile.ProgressFunc {
	return func(message string, percent int) {
		*steps = append(*steps, progressStep{message, percent})
	}
}

func percents(steps []progressStep) []int {
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = s.percent
	}
	return out
}

func TestInstaller_FullRun(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Stream", mock.Anything, "powershell", argsWith("-ExecutionPolicy", "Bypass", "CreateUpdateInstaller")).
		Return([]string{"Searching...", "Found:3", "Downloading", "Installing", "Completed:2"}, 0, nil)

	var steps []progressStep
	err := NewInstaller(runner, time.Minute, nil).RunInstallPipeline(context.Background(), recordProgress(&steps))
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 30, 50, 70, 100, 100}, percents(steps))
	assert.Equal(t, "Found 3 driver updates", steps[2].message)
}

func TestInstaller_NoUpdates(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Stream", mock.Anything, "powershell", mock.Anything).
		Return([]string{"Searching...", "NoUpdates"}, 0, nil)

	var steps []progressStep
	err := NewInstaller(runner, 0, nil).RunInstallPipeline(context.Background(), recordProgress(&steps))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 100, 100}, percents(steps))
	assert.Equal(t, "No driver updates available", steps[2].message)
}

func TestInstaller_NonZeroExit(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Stream", mock.Anything, "powershell", mock.Anything).
		Return([]string{"Searching...", "Error:Exception from HRESULT: 0x8024402C"}, 1, nil)

	var steps []progressStep
	err := NewInstaller(runner, time.Minute, nil).RunInstallPipeline(context.Background(), recordProgress(&steps))

	var installErr *reconcile.InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, 1, installErr.ExitCode)
	assert.ErrorIs(t, err, reconcile.ErrIO)
	assert.Equal(t, []int{10, 20}, percents(steps))
}

func TestInstaller_RunnerFailure(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Stream", mock.Anything, "powershell", mock.Anything).
		Return(nil, -1, context.DeadlineExceeded)

	err := NewInstaller(runner, time.Minute, nil).RunInstallPipeline(context.Background(), nil)

	var installErr *reconcile.InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, -1, installErr.ExitCode)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestInstaller_AppliesTimeout(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Stream", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 5*time.Second
	}), "powershell", mock.Anything).Return([]string{}, 0, nil)

	err := NewInstaller(runner, 5*time.Second, nil).RunInstallPipeline(context.Background(), nil)
	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestProgressFor(t *testing.T) {
	tests := []struct {
		line    string
		percent int
		ok      bool
	}{
		{"Searching...", 20, true},
		{"Found:12", 30, true},
		{"NoUpdates", 100, true},
		{"Downloading", 50, true},
		{"Installing", 70, true},
		{"Completed:2", 100, true},
		{"some other output", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, pct, ok := progressFor(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.percent, pct)
		})
	}
}
