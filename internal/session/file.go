package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersister keeps the record in a JSON file, by default
// ~/.config/clubdesk/user-store.json
type FilePersister struct {
	path string
}

// NewFilePersister returns a persister writing to path
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// DefaultFilePath returns the default record location
func DefaultFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "clubdesk", RecordKey+".json"), nil
}

// Load reads the record. A missing file is an empty record.
func (p *FilePersister) Load() (Record, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return Record{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return rec, nil
}

// Save writes the record
func (p *FilePersister) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(p.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear deletes the file
func (p *FilePersister) Clear() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
