package spaceInformations

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/disk"
)

// Usage summarises the volume an archive path lives on.
type Usage struct {
	Path       string
	Device     string
	MountPoint string
	TotalGB    float64
	FreeGB     float64
	UsedGB     float64
	PathGB     float64 // size of the files below Path
}

// FreeSpaceGB returns the free space of the volume holding path, in GB.
func FreeSpaceGB(path string) (float64, error) {
	stat, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read disk usage for %s: %w", path, err)
	}
	return float64(stat.Free) / 1e9, nil
}

// CalculateDirectorySize calculates the total size of files within a directory
func CalculateDirectorySize(path string) (size int64, err error) {
	err = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return
}

// GetDeviceAndMountPoint resolves the mount point and device of path. A path
// that does not exist yet is resolved through its nearest existing parent.
func GetDeviceAndMountPoint(path string) (string, string, error) {
	partitions, err := disk.Partitions(true)
	if err != nil {
		return "", "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	matchPath := absPath
	foundExisting := false
	current := absPath
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			current = resolved
		}

		_, infoErr := os.Stat(current)
		if infoErr == nil {
			matchPath = current
			foundExisting = true
			break
		}

		if !os.IsNotExist(infoErr) {
			return "", "", infoErr
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	if !foundExisting {
		return "", "", fmt.Errorf("path does not exist: %s", path)
	}

	if matchPath == string(os.PathSeparator) && matchPath != absPath {
		return "", "", fmt.Errorf("path does not exist beyond root: %s", path)
	}

	// Longest mount point wins so nested mounts beat "/".
	bestMount, bestDevice := "", ""
	for _, partition := range partitions {
		if contains(matchPath, partition.Mountpoint) && len(partition.Mountpoint) > len(bestMount) {
			bestMount, bestDevice = partition.Mountpoint, partition.Device
		}
	}
	if bestMount == "" {
		return "", "", fmt.Errorf("mount point not found for path: %s", path)
	}
	return bestMount, bestDevice, nil
}

// contains checks if a path is within the mount point.
func contains(path, mountpoint string) bool {
	if mountpoint == "" {
		return false
	}

	p := filepath.Clean(path)
	m := filepath.Clean(mountpoint)

	if m == string(os.PathSeparator) {
		return true
	}

	if p == m {
		return true
	}

	return strings.HasPrefix(p, strings.TrimSuffix(m, string(os.PathSeparator))+string(os.PathSeparator))
}

// Inspect collects usage information for path.
func Inspect(path string) (Usage, error) {
	stat, err := disk.Usage(path)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read disk usage for %s: %w", path, err)
	}

	mountPoint, device, err := GetDeviceAndMountPoint(path)
	if err != nil {
		return Usage{}, err
	}

	pathSize, err := CalculateDirectorySize(path)
	if err != nil {
		return Usage{}, err
	}

	return Usage{
		Path:       path,
		Device:     device,
		MountPoint: mountPoint,
		TotalGB:    float64(stat.Total) / 1e9,
		FreeGB:     float64(stat.Free) / 1e9,
		UsedGB:     float64(stat.Used) / 1e9,
		PathGB:     float64(pathSize) / 1e9,
	}, nil
}

// DisplayDiskUsage logs the disk usage of path using structured logging
func DisplayDiskUsage(logger *slog.Logger, path string) error {
	if logger == nil {
		logger = slog.Default()
	}

	usage, err := Inspect(path)
	if err != nil {
		logger.Error("Error retrieving disk usage", "path", path, "error", err)
		return err
	}

	logger.Info("Disk Usage information for path",
		"Path", usage.Path,
		"Device", usage.Device,
		"Mount Point", usage.MountPoint,
		"Total (GB)", fmt.Sprintf("%.2f", usage.TotalGB),
		"Used (GB)", fmt.Sprintf("%.2f", usage.UsedGB),
		"Free (GB)", fmt.Sprintf("%.2f", usage.FreeGB),
		"Usage by archive", fmt.Sprintf("%.2f", usage.PathGB),
	)
	return nil
}
