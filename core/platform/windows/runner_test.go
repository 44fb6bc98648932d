package windows

import (
	"context"
	"runtime"
	"testing"

	"driver-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunner_OutputDecodesGBK(t *testing.T) {
	skipWithoutShell(t)

	out, err := NewExecRunner(nil).Output(context.Background(), "sh", "-c", `printf 'Node,Name\n\307\375\266\257\n'`)
	require.NoError(t, err)
	assert.Equal(t, "Node,Name\n驱动\n", out)
}

func TestExecRunner_OutputCustomEncoding(t *testing.T) {
	skipWithoutShell(t)

	out, err := NewExecRunner(unicode.UTF8).Output(context.Background(), "sh", "-c", "printf 'héllo'")
	require.NoError(t, err)
	assert.Equal(t, "héllo", out)
}

func TestExecRunner_OutputFailure(t *testing.T) {
	skipWithoutShell(t)

	_, err := NewExecRunner(nil).Output(context.Background(), "sh", "-c", "echo boom >&2; exit 2")
	assert.ErrorIs(t, err, reconcile.ErrIO)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecRunner_OutputMissingBinary(t *testing.T) {
	_, err := NewExecRunner(nil).Output(context.Background(), "definitely-not-a-real-binary")
	assert.ErrorIs(t, err, reconcile.ErrIO)
}

func TestExecRunner_Stream(t *testing.T) {
	skipWithoutShell(t)

	var lines []string
	code, err := NewExecRunner(nil).Stream(context.Background(), func(line string) {
		lines = append(lines, line)
	}, "sh", "-c", "echo Searching...; echo; echo '  Found:2  '; exit 3")

	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, []string{"Searching...", "Found:2"}, lines)
}

func TestExecRunner_StreamCancelled(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code, err := NewExecRunner(nil).Stream(ctx, func(string) {}, "sh", "-c", "sleep 5")
	assert.Equal(t, -1, code)
	assert.Error(t, err)
}
