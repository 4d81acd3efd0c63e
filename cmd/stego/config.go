package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// configEnv names the environment variable holding the config file path
// when --config is not given.
const configEnv = "OUROBOROS_STEGO_CONFIG"

// fileConfig is the optional YAML configuration of the CLI.
type fileConfig struct {
	ArchivePath      string `yaml:"archive_path"`
	MinimumFreeSpace int    `yaml:"minimum_free_space"`
	LogLevel         string `yaml:"log_level"`
}

// loadConfig reads path, or the file named by configEnv when path is empty.
// Without either, defaults apply: archive in ~/.ouroboros-stego, 1 GB free
// space, error-level logging.
func loadConfig(path string) (fileConfig, error) {
	cfg := fileConfig{MinimumFreeSpace: 1, LogLevel: "error"}

	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if cfg.ArchivePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("failed to determine user home directory: %w", err)
		}
		cfg.ArchivePath = filepath.Join(homeDir, ".ouroboros-stego")
	}
	return cfg, nil
}

func (c fileConfig) logger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	return logger, nil
}
