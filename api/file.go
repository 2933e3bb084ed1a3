// Package api contains the versioned configuration types for iconify, and
// helpers for reading and writing them.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName is the directory name used below the user config directory.
const AppName = "iconify"

var (
	ErrIsDir        = errors.New("path is a directory")
	ErrUnknownState = errors.New("unknown file state")
)

// GetConfigPath returns the path to a file in the user's iconify config
// directory ($XDG_CONFIG_HOME/iconify, usually ~/.config/iconify).
func GetConfigPath(filename string) string {
	return filepath.Join(xdg.ConfigHome, AppName, filename)
}

// regularFileExists reports whether path is an existing regular file. It
// fails for directories and special files.
func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat file: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("%s: %w", path, ErrIsDir)
	case !info.Mode().IsRegular():
		return false, fmt.Errorf("%s: %w", path, ErrUnknownState)
	}

	return true, nil
}

// ReadFile reads a regular file.
func ReadFile(path string) ([]byte, error) {
	exists, err := regularFileExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("stat file: %s: %w", path, os.ErrNotExist)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// WriteFile writes data to path, creating parent directories. Unless force is
// set, an existing file is left untouched; with force, it is first moved to a
// timestamped backup next to it. It reports whether data was written.
func WriteFile(path string, data []byte, force bool) (bool, error) {
	exists, err := regularFileExists(path)
	if err != nil {
		return false, err
	}
	if exists && !force {
		slog.Debug("file already exists, skipping write", slog.String("path", path))

		return false, nil
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return false, fmt.Errorf("create directories: %w", err)
	}

	if exists {
		backupPath := filepath.Join(filepath.Dir(path),
			fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano()))

		slog.Info("backing up existing file", slog.String("path", backupPath))

		err = os.Rename(path, backupPath)
		if err != nil {
			return false, fmt.Errorf("back up existing file: %w", err)
		}
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return false, fmt.Errorf("write file: %w", err)
	}

	return true, nil
}

// FindConfigFile searches targetPath and its parents for the first of
// fileNames that exists. It returns an empty string if none is found.
func FindConfigFile(targetPath string, fileNames []string) (string, error) {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	searchDir := absPath
	if !info.IsDir() {
		searchDir = filepath.Dir(absPath)
	}

	for {
		for _, fileName := range fileNames {
			configPath := filepath.Join(searchDir, fileName)

			exists, err := regularFileExists(configPath)
			if err == nil && exists {
				return configPath, nil
			}
		}

		parent := filepath.Dir(searchDir)
		if parent == searchDir {
			return "", nil
		}

		searchDir = parent
	}
}
