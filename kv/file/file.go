// Package file implements a kv.Store that keeps one JSON file per record
// under a data directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"listy/kv"
)

// Config holds file backend configuration
type Config struct {
	Dir string // Directory holding one <key>.json file per record
}

// Store implements kv.Store on top of plain files.
type Store struct {
	dir string // Resolved absolute path
}

// New creates a file-backed store rooted at cfg.Dir, creating the
// directory if necessary.
func New(cfg Config) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "data"
	}

	// Resolve relative paths
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Get reads the record for key, returning (nil, nil) if the file does not
// exist yet.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set writes value to the record file for key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return os.WriteFile(s.path(key), value, 0644)
}

// Close closes the store
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Verify interface compliance at compile time
var _ kv.Store = (*Store)(nil)
