package dieselcompute

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeUsageFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadUsage(t *testing.T) {
	path := writeUsageFile(t, `
name: copy_storage_buffer
warmup: 4
iterations: 32
buffer_size: 65536
workgroups: [16, 8, 1]
`)

	use, err := LoadUsage(path)
	require.NoError(t, err)
	require.Equal(t, "copy_storage_buffer", use.Name)
	require.Equal(t, 4, use.Warmup)
	require.Equal(t, 32, use.Iterations)
	require.Equal(t, 65536, use.BufferSize)
	require.Equal(t, [3]uint32{16, 8, 1}, use.Workgroups)
}

func TestLoadUsageDefaults(t *testing.T) {
	path := writeUsageFile(t, "name: minimal\n")

	use, err := LoadUsage(path)
	require.NoError(t, err)

	defaults := NewUsage("minimal")
	require.Equal(t, defaults, use)
}

func TestLoadUsageRejectsInvalidLoopShape(t *testing.T) {
	path := writeUsageFile(t, "name: broken\niterations: -1\n")

	_, err := LoadUsage(path)
	require.ErrorContains(t, err, "iterations")
}

func TestLoadUsageMissingFile(t *testing.T) {
	_, err := LoadUsage(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestUsageValidate(t *testing.T) {
	use := NewUsage("ok")
	require.NoError(t, use.Validate())

	use.Warmup = -1
	require.Error(t, use.Validate())

	use = NewUsage("ok")
	use.BufferSize = -5
	require.Error(t, use.Validate())
}
