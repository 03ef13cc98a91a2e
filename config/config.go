package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vectordesk/core/v1/logger"
	"github.com/vectordesk/core/v1/profile"
	"github.com/vectordesk/core/v1/tracer"
	"github.com/vectordesk/core/v1/vectorstore"
)

// Config holds all configuration for the vectordesk tools. Each section
// feeds the package of the same name; the zero value of a section is
// filled in by DefaultConfig.
type Config struct {
	Logger  logger.Config  `yaml:"logger"`
	Tracer  tracer.Config  `yaml:"tracer"`
	Profile profile.Config `yaml:"profile"`
	Copy    CopyConfig     `yaml:"copy"`
}

// CopyConfig holds defaults for collection copies started from the CLI.
type CopyConfig struct {
	// Documents moved per batch. Also the granularity at which a copy
	// reports progress and honors cancellation.
	BatchSize int `yaml:"batch_size"`
}

// DefaultConfig returns the default configuration.
//
// Profile.Path is left empty here. An empty path means "store profiles
// under the data dir"; the CLI resolves it with EnsureDataDir and
// ProfileDBPath so that library users of the profile package are not
// tied to a home-directory layout.
func DefaultConfig() *Config {
	return &Config{
		Logger: logger.DefaultConfig(),
		Tracer: tracer.DefaultConfig(),
		Copy: CopyConfig{
			BatchSize: vectorstore.DefaultBatchSize,
		},
	}
}

// Load loads configuration from a YAML file. The file contents are
// overlaid on DefaultConfig, so a partial file only overrides the keys
// it names. A missing file is not an error and yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory, trying
// vectordesk.yaml first and .vectordesk/config.yaml second. When
// neither exists the defaults are returned.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "vectordesk.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".vectordesk", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DataDir returns the per-user data directory, ~/.vectordesk.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vectordesk"), nil
}

// EnsureDataDir creates the data directory if needed and returns it.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// ProfileDBPath returns the path of the profile database inside dir.
func ProfileDBPath(dir string) string {
	return filepath.Join(dir, "profiles.db")
}
