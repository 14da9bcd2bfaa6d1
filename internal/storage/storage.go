package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileMode is the permission of written calendar files.
const FileMode = 0o644

// Storage handles writing calendar files into one directory
type Storage struct {
	dir string
}

// New creates a new Storage instance rooted at dir
func New(dir string) (*Storage, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns the full path of name inside the storage directory.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteFile atomically replaces name with data and returns the written path.
func (s *Storage) WriteFile(name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := s.Path(name)

	tmp, err := os.CreateTemp(s.dir, ".workday-ics-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	// No-op once the rename succeeded.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("syncing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, FileMode); err != nil {
		return "", fmt.Errorf("setting permissions on %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("renaming %s: %w", name, err)
	}

	return path, nil
}

// ExpandHome expands a leading "~/" to the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
