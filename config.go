package ouroborosstego

import (
	"fmt"
	"os"

	"github.com/i5heu/ouroboros-stego/pkg/spaceInformations"
	"github.com/sirupsen/logrus"
)

// Config configures a Stego instance. The zero value is valid: no archive
// and a default logrus logger.
type Config struct {
	ArchivePath      string         // directory of the carrier archive; empty disables archiving
	MinimumFreeSpace int            // required free space in GB on the archive volume
	Logger           *logrus.Logger // defaults to logrus.New()
}

func (c *Config) checkConfig() error {
	if c.MinimumFreeSpace < 0 {
		return fmt.Errorf("minimum free space must not be negative, got %d", c.MinimumFreeSpace)
	}
	if c.ArchivePath == "" {
		return nil
	}

	info, err := os.Stat(c.ArchivePath)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(c.ArchivePath, 0o755); err != nil {
			return fmt.Errorf("failed to create archive directory %s: %w", c.ArchivePath, err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat archive path %s: %w", c.ArchivePath, err)
	case !info.IsDir():
		return fmt.Errorf("archive path %s is not a directory", c.ArchivePath)
	}

	if c.MinimumFreeSpace > 0 {
		free, err := spaceInformations.FreeSpaceGB(c.ArchivePath)
		if err != nil {
			return err
		}
		if free < float64(c.MinimumFreeSpace) {
			return fmt.Errorf("not enough free space at %s: %.2f GB available, %d GB required",
				c.ArchivePath, free, c.MinimumFreeSpace)
		}
	}
	return nil
}
