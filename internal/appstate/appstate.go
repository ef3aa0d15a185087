// Package appstate persists user-visible application state between runs.
package appstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vocapita/vocapita/internal/platform"
)

// Theme selects the UI appearance.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// State holds every persisted preference. Callers receive and pass it
// explicitly; there is no package-level instance.
type State struct {
	Theme           Theme             `json:"theme"`
	DefaultPlatform platform.Platform `json:"defaultPlatform"`
	OnboardingDone  bool              `json:"onboardingDone"`
}

// Default returns the state used on first launch.
func Default() State {
	return State{
		Theme:           ThemeSystem,
		DefaultPlatform: platform.Twitter,
		OnboardingDone:  false,
	}
}

// Store reads and writes state at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted state. A missing file yields Default() without
// error; a corrupt file is an error.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return State{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to parse state file: %w", err)
	}

	switch state.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		state.Theme = ThemeSystem
	}
	if _, err := platform.Parse(string(state.DefaultPlatform)); err != nil {
		state.DefaultPlatform = platform.Twitter
	}

	return state, nil
}

// Save writes the state atomically via a temp file rename.
func (s *Store) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
