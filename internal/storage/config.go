package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	DBPath         string `yaml:"db_path"`
	LogFile        string `yaml:"log_file"`
	Debug          bool   `yaml:"debug"`
	SearchLimit    int    `yaml:"search_limit"`
	PollIntervalMS int    `yaml:"poll_interval_ms"`
}

const (
	DefaultSearchLimit    = 500
	DefaultPollIntervalMS = 16
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SearchLimit:    DefaultSearchLimit,
		PollIntervalMS: DefaultPollIntervalMS,
	}
}

// LoadConfig reads config from the YAML file at path. A missing file yields
// the defaults. Environment overrides (BMM_DB_PATH, BMM_DEBUG) are applied
// on top of the file.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.SearchLimit <= 0 {
		config.SearchLimit = defaults.SearchLimit
	}
	if config.PollIntervalMS <= 0 {
		config.PollIntervalMS = defaults.PollIntervalMS
	}

	return &config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BMM_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("BMM_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BMM_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	return nil
}

// SaveConfig writes config to the YAML file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
