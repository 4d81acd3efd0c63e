package spaceInformations

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDeviceAndMountPoint_TempDirNested(t *testing.T) {
	temp := t.TempDir()
	nested := filepath.Join(temp, "some", "nested", "path", "that", "does", "not", "exist")

	partitions, err := disk.Partitions(true)
	if err != nil {
		t.Fatalf("disk.Partitions returned error: %v", err)
	}
	if len(partitions) == 0 {
		t.Skip("no partitions available on this system")
	}

	mountPoint, _, err := GetDeviceAndMountPoint(nested)
	if err != nil {
		t.Skipf("no partition found for nested temp path %q: %v", nested, err)
	}
	if !contains(temp, mountPoint) {
		t.Fatalf("mount point %q does not cover %q", mountPoint, temp)
	}
}

func TestGetDeviceAndMountPoint_NotFound(t *testing.T) {
	path := "/a987wgf9a8wgf/path/that/does/not/exist"
	_, _, err := GetDeviceAndMountPoint(path)
	if err == nil {
		t.Fatalf("expected error for path %q, got nil", path)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, contains("/var/lib/archive", "/"))
	assert.True(t, contains("/var/lib/archive", "/var"))
	assert.True(t, contains("/var/lib/archive", "/var/"))
	assert.True(t, contains("/var", "/var"))
	assert.False(t, contains("/variable", "/var"))
	assert.False(t, contains("/var", ""))
}

func TestCalculateDirectorySize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b"), make([]byte, 23), 0o600))

	size, err := CalculateDirectorySize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(123), size)
}

func TestFreeSpaceGB(t *testing.T) {
	free, err := FreeSpaceGB(t.TempDir())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, free, 0.0)

	_, err = FreeSpaceGB("/a987wgf9a8wgf/missing")
	assert.Error(t, err)
}

func TestDisplayDiskUsage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	dir := t.TempDir()
	if err := DisplayDiskUsage(logger, dir); err != nil {
		t.Skipf("disk usage not available for %q: %v", dir, err)
	}
	assert.Contains(t, buf.String(), "Disk Usage information for path")
	assert.Contains(t, buf.String(), dir)

	buf.Reset()
	assert.Error(t, DisplayDiskUsage(logger, "/a987wgf9a8wgf/missing"))
	assert.Contains(t, buf.String(), "Error retrieving disk usage")
}
