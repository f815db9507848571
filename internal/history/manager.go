// Package history persists short lists of previous inputs, such as viewer
// filter queries, between runs
package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Manager loads and saves history lists as TOML files in one directory
type Manager struct {
	dir string
}

// File is the on-disk form of one history list
type File struct {
	Entries []string `toml:"entries"`
}

// DefaultDir returns ~/.local/share/renderwatch/history
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "renderwatch", "history"), nil
}

// NewManager creates a manager storing files in dir, creating it if needed
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Load returns the entries saved under name, oldest first. A missing or
// corrupted file gives an empty list.
func (m *Manager) Load(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, nil
	}
	return file.Entries, nil
}

// Save replaces the entries saved under name
func (m *Manager) Save(name string, entries []string) error {
	data, err := toml.Marshal(File{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
