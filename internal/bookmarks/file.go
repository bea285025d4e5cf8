package bookmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filename is the name of the bookmark file in a data directory or Gist.
const Filename = "bookmarks.json"

// FileBackend stores bookmarks in a JSON file on local disk.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend writing Filename inside dataDir.
// A leading "~/" is expanded and the directory is created if needed.
func NewFileBackend(dataDir string) (*FileBackend, error) {
	dir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileBackend{
		path: filepath.Join(dir, Filename),
	}, nil
}

// Path returns the bookmark file location.
func (f *FileBackend) Path() string {
	return f.path
}

// Load reads the bookmark file. A missing file is not an error.
func (f *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}
	return data, nil
}

// Save replaces the bookmark file. The data is written to a temporary file
// first and renamed into place.
func (f *FileBackend) Save(data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing bookmarks: %w", err)
	}
	return nil
}

// ExpandHome expands a leading "~/" to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}
