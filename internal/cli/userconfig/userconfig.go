// Package userconfig keeps clubctl preferences between runs in
// ~/.config/clubdesk/config.json.
package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// UserConfig is the content of the preferences file
type UserConfig struct {
	SelectedClubID int64  `json:"selected_club_id,omitempty"`
	Output         string `json:"output,omitempty"`
}

// Path is where the preferences live for the current user
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "clubdesk", "config.json"), nil
}

// Load returns the saved preferences. A missing file is an empty config.
func Load() (*UserConfig, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &UserConfig{}, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := &UserConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save replaces the file through a temp file and rename
func Save(cfg *UserConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Update applies fn to the saved preferences and writes them back
func Update(fn func(*UserConfig)) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	fn(cfg)
	return Save(cfg)
}

// SetSelectedClub remembers the club club-admin commands act on; 0 clears it
func SetSelectedClub(id int64) error {
	return Update(func(cfg *UserConfig) { cfg.SelectedClubID = id })
}

// SelectedClub returns the remembered club, or 0
func SelectedClub() (int64, error) {
	cfg, err := Load()
	if err != nil {
		return 0, err
	}
	return cfg.SelectedClubID, nil
}
