// Package filestore persists named tables as JSON documents under a data
// folder. It is the durable backing for the storefront's users, sessions,
// request ledger and notification log when a data folder is configured.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Store struct {
	folder string
	mu     sync.Mutex
}

// New creates the data folder if needed and returns a store rooted at it.
func New(folder string) (*Store, error) {
	if folder == "" {
		return nil, fmt.Errorf("[filestore.New] folder is required")
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("[filestore.New] create folder: %w", err)
	}
	return &Store{folder: folder}, nil
}

// Load reads a table into v. A missing or unreadable table reports
// found=false and leaves v untouched, so callers fall back to an empty
// collection the same way the storefront treated corrupt browser storage.
func (s *Store) Load(table string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("[filestore.Load] read %q: %w", table, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// Save writes a table atomically via a temp file rename.
func (s *Store) Save(table string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("[filestore.Save] marshal %q: %w", table, err)
	}

	tmp := s.path(table) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("[filestore.Save] write %q: %w", table, err)
	}
	if err := os.Rename(tmp, s.path(table)); err != nil {
		return fmt.Errorf("[filestore.Save] rename %q: %w", table, err)
	}
	return nil
}

// Delete removes a table. Deleting an absent table is not an error.
func (s *Store) Delete(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(table)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[filestore.Delete] remove %q: %w", table, err)
	}
	return nil
}

func (s *Store) path(table string) string {
	return filepath.Join(s.folder, table+".json")
}
