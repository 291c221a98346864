// Package config loads and saves the YAML configuration for the
// ixtree CLI: which data file backs a tree, its order and key/value
// widths, and logging verbosity. Grounded on the teacher's config
// package, trimmed of the fields specific to running a networked
// key-value service (bind address, port, API keys).
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the ixtree CLI's persisted configuration.
type Config struct {
	DataFile string  `yaml:"data_file"`
	Order    int     `yaml:"order"`
	KeyWidth int     `yaml:"key_width"`
	ValWidth int     `yaml:"val_width"`
	Logging  Logging `yaml:"logging"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration a freshly created tree uses
// when none is supplied on the command line.
func DefaultConfig() *Config {
	return &Config{
		DataFile: "./tree.ixt",
		Order:    64,
		KeyWidth: 8,
		ValWidth: 8,
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads and parses the configuration at path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Newf("config: file does not exist: %s", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: resolve path %s", path)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", absPath)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", absPath)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating its parent directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrapf(err, "config: create directory for %s", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "config: marshal")
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "config: write %s", path)
	}
	return nil
}

// Bootstrap creates path with a default configuration if it doesn't
// already exist, optionally overriding the data file location.
func Bootstrap(path, dataFile string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := DefaultConfig()
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if err := Save(cfg, path); err != nil {
		return nil, errors.Wrap(err, "config: bootstrap")
	}
	return cfg, nil
}

// DefaultPath returns the default configuration file location for the
// current platform, under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "config: resolve user config directory")
	}
	return filepath.Join(dir, "ixtree", "config.yaml"), nil
}
