package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir and restores the working directory on cleanup.
// It stands in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// TestExecuteVersion tests that the version command runs end to end.
func TestExecuteVersion(t *testing.T) {
	chdir(t, t.TempDir())

	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, ExecuteTest())
}

// TestExecuteBadConfig tests the config-error exit path.
func TestExecuteBadConfig(t *testing.T) {
	chdir(t, t.TempDir())

	rootCmd.SetArgs([]string{"version", "--config", "does-not-exist.yml"})
	defer rootCmd.SetArgs(nil)

	err := ExecuteTest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
