package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a requested bookmark or tag does not exist.
var ErrNotFound = errors.New("not found")

// SaveOptions controls how an existing bookmark is updated.
type SaveOptions struct {
	// ResetMissing clears the title and tags of an existing bookmark when the
	// input does not provide them. Otherwise tags are merged and an empty
	// title keeps the stored one.
	ResetMissing bool
}

// DefaultDBPath returns the default database path: $XDG_DATA_HOME/bmm/bmm.db
func DefaultDBPath() (string, error) {
	dir, err := xdgDir("XDG_DATA_HOME", ".local", "share")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bmm", "bmm.db"), nil
}

// DefaultConfigFilePath returns the default config path: $XDG_CONFIG_HOME/bmm/config.yml
func DefaultConfigFilePath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bmm", "config.yml"), nil
}

// DefaultLogPath returns the default log path: $XDG_STATE_HOME/bmm/bmm.log
func DefaultLogPath() (string, error) {
	dir, err := xdgDir("XDG_STATE_HOME", ".local", "state")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bmm", "bmm.log"), nil
}

// xdgDir returns $env when set, otherwise ~/<fallback...>.
func xdgDir(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...), nil
}
