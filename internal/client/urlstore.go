package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// URLStore persists the backend base URL across runs, the terminal analog of
// the dashboard's localStorage entry. One string under one fixed path.
type URLStore struct {
	path string
}

// NewURLStore creates a store at path. An empty path falls back to
// base_url under the user config directory.
func NewURLStore(path string) (*URLStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "psycoagenda", "base_url")
	}
	return &URLStore{path: path}, nil
}

// Load returns the persisted URL, or empty when nothing was stored yet.
func (s *URLStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save writes url to disk. Called on every URL change, reachable or not, so
// a dirty URL survives restarts the same way the stored value always did.
func (s *URLStore) Save(url string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(url), 0o600)
}
