package cmdexec

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipOnWindows skips exec-based tests that rely on Unix tools.
func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires Unix shell tools")
	}
}

// TestRunCapturesOutput tests successful execution with output capture.
func TestRunCapturesOutput(t *testing.T) {
	skipOnWindows(t)

	res, err := Run(context.Background(), "echo", []string{"hello"}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", string(res.Output))
	assert.False(t, res.TimedOut)
}

// TestRunNonZeroExit tests exit code extraction on failure.
func TestRunNonZeroExit(t *testing.T) {
	skipOnWindows(t)

	res, err := Run(context.Background(), "false", nil, "", 0)
	assert.Error(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.False(t, res.TimedOut)
}

// TestRunTimeout tests that the timeout bound kills the command.
func TestRunTimeout(t *testing.T) {
	skipOnWindows(t)

	start := time.Now()
	res, err := Run(context.Background(), "sleep", []string{"5"}, "", 100*time.Millisecond)
	assert.Error(t, err)
	assert.True(t, res.TimedOut)
	assert.Less(t, time.Since(start), 3*time.Second)
}

// TestRunMissingExecutable tests behavior when the executable does not exist.
func TestRunMissingExecutable(t *testing.T) {
	res, err := Run(context.Background(), "definitely-not-a-real-command-xyz", nil, "", 0)
	assert.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

// TestRunWorkingDirectory tests that dir is honored.
func TestRunWorkingDirectory(t *testing.T) {
	skipOnWindows(t)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	res, err := Run(context.Background(), "pwd", nil, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, dir, strings.TrimSpace(string(res.Output)))
}
