package config

import (
	"errors"
	"os"
	"path/filepath"
)

// StateDirName is the per-directory folder holding config, logs and view state.
const StateDirName = ".tv"

// FileName is the config file inside StateDirName.
const FileName = "config.yaml"

// ErrNotFound is returned when no config file exists above a directory.
var ErrNotFound = errors.New("config file not found")

// ConfigPath returns the config file location for dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, StateDirName, FileName)
}

// StateDir returns the state directory for dir: the .tv folder of the
// nearest ancestor that has one, otherwise dir/.tv.
func StateDir(dir string) string {
	if root, ok := findStateRoot(dir); ok {
		return filepath.Join(root, StateDirName)
	}
	return filepath.Join(dir, StateDirName)
}

// FindConfig searches for .tv/config.yaml starting from dir and walking up.
// An empty dir means the working directory.
func FindConfig(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	root, ok := findStateRoot(dir)
	if !ok {
		return "", ErrNotFound
	}
	path := ConfigPath(root)
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// findStateRoot walks up from dir looking for a .tv/ directory.
func findStateRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		stateDir := filepath.Join(dir, StateDirName)
		if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
