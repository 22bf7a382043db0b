// Package cache keeps a local durable mirror of the generation history so the
// client can show past results without the server being reachable. Writes are
// whole-list overwrites; staleness is accepted and reconciled against server
// truth by the caller. Optimistic updates are never rolled back when the
// corresponding backend write fails; that inconsistency window is accepted.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kalambet/photostudio/internal/storage"
)

const fileName = "history_cache.json"

// Cache is a file-backed mirror of the record list.
type Cache struct {
	path string
}

// New creates a Cache rooted in dataDir. The file is created on first Save.
func New(dataDir string) *Cache {
	return &Cache{path: filepath.Join(dataDir, fileName)}
}

// Load returns the cached record list, possibly stale. A missing file is an
// empty cache, not an error.
func (c *Cache) Load() ([]storage.Record, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return []storage.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history cache: %w", err)
	}

	var records []storage.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing history cache: %w", err)
	}
	return records, nil
}

// Save overwrites the entire cached list.
func (c *Cache) Save(records []storage.Record) error {
	if records == nil {
		records = []storage.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	return os.WriteFile(c.path, data, 0o600)
}

// Prepend adds a record at the head of the cached list (optimistic insert
// after a successful generation, independent of the backend write).
func (c *Cache) Prepend(rec storage.Record) error {
	records, err := c.Load()
	if err != nil {
		return err
	}
	return c.Save(append([]storage.Record{rec}, records...))
}

// Remove drops the record with the given id from the cached list, reporting
// whether it was present (optimistic delete before the backend call).
func (c *Cache) Remove(id int64) (bool, error) {
	records, err := c.Load()
	if err != nil {
		return false, err
	}

	kept := records[:0]
	removed := false
	for _, r := range records {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return false, nil
	}
	return true, c.Save(kept)
}
