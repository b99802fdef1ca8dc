// Package storage provides the file-backed key-value store the CLI host
// plugs in as the engine's persistence boundary.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a cache.Persister backed by one JSON file. Every SetItem
// rewrites the file; the data volume (a result slot and a source list) is
// small enough that this stays cheap.
type FileStore struct {
	filePath string
	mu       sync.RWMutex
	items    map[string]string
}

func NewFileStore(filePath string) *FileStore {
	return &FileStore{
		filePath: filePath,
		items:    make(map[string]string),
	}
}

// Load reads the store from disk. A missing or empty file is not an error.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &fs.items); err != nil {
		return fmt.Errorf("failed to unmarshal store: %w", err)
	}
	return nil
}

func (fs *FileStore) GetItem(key string) (string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	value, ok := fs.items[key]
	return value, ok
}

func (fs *FileStore) SetItem(key, value string) error {
	fs.mu.Lock()
	fs.items[key] = value
	data, err := json.MarshalIndent(fs.items, "", "  ")
	fs.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if dir := filepath.Dir(fs.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// Len reports the number of stored keys.
func (fs *FileStore) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.items)
}
