// Package workdir provides utilities for managing the vocapita working directory.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root returns the base directory for all vocapita working files.
// The path is expanded at runtime to resolve to:
//
//	$HOME/.vocapita
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".vocapita"), nil
}

// DatabasePath returns the full path of the recordings database.
func DatabasePath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "recordings.db"), nil
}

// StatePath returns the full path of the app state file.
func StatePath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "state.json"), nil
}

// AudioDir returns the directory where audio artifacts are written while a
// recording session is in flight.
func AudioDir() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "audio"), nil
}

// Prep ensures that the working directories exist.
func Prep() error {
	audioDir, err := AudioDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return fmt.Errorf("failed to create working directory %s: %w", audioDir, err)
	}

	return nil
}
