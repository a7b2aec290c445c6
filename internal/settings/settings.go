// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings persists the model connection settings (API key, base
// URL, model ID) as one JSON blob in a local-storage namespace directory.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// FileName is the name of the settings blob inside the namespace directory.
const FileName = "knowledge_agent_settings"

// Store reads and writes the settings blob under Dir.
type Store struct {
	Dir string
}

// DefaultDir returns ~/.config/knowledge-agent/local-storage.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "knowledge-agent", "local-storage"), nil
}

// Path returns the settings file path.
func (s Store) Path() string {
	return filepath.Join(s.Dir, FileName)
}

// Load returns the saved settings. A missing file yields zero settings.
func (s Store) Load() (types.Settings, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return types.Settings{}, nil
	}
	if err != nil {
		return types.Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	var out types.Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return types.Settings{}, fmt.Errorf("decoding settings %s: %w", s.Path(), err)
	}
	return out, nil
}

// Save replaces the saved settings with in.
func (s Store) Save(in types.Settings) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Clear removes the namespace directory and everything in it.
func (s Store) Clear() error {
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("clearing settings: %w", err)
	}
	return nil
}

// Resolve merges layers field by field. For each field the first layer
// with a non-empty value wins.
func Resolve(layers ...types.Settings) types.Settings {
	var out types.Settings
	for _, l := range layers {
		if out.APIKey == "" {
			out.APIKey = l.APIKey
		}
		if out.BaseURL == "" {
			out.BaseURL = l.BaseURL
		}
		if out.ModelID == "" {
			out.ModelID = l.ModelID
		}
	}
	return out
}
