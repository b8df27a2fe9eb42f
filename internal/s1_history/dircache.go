package s1_history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DirCache stores one JSON file per batch under a directory.
// Expiry is stored in the file and checked on read.
type DirCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDirCache creates a directory backed cache
func NewDirCache(dir string, ttl time.Duration) *DirCache {
	return &DirCache{dir: dir, ttl: ttl, now: time.Now}
}

// Get retrieves a batch; expired files are removed
func (c *DirCache) Get(ctx context.Context, key string) (*Batch, bool, error) {
	path := filepath.Join(c.dir, fileName(key))

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache read failed: %w", err)
	}

	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		_ = os.Remove(path)
		return nil, false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	if batch.Expired(c.now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return &batch, true, nil
}

// Put writes a batch atomically (temp file + rename)
func (c *DirCache) Put(ctx context.Context, key string, batch *Batch) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache mkdir failed: %w", err)
	}

	now := c.now()
	stored := *batch
	stored.StoredAt = now
	stored.ExpiresAt = now.Add(c.ttl)

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".batch-*")
	if err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache write failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache write failed: %w", err)
	}

	return os.Rename(tmp.Name(), filepath.Join(c.dir, fileName(key)))
}

// Evict removes a batch; a missing file is not an error
func (c *DirCache) Evict(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(c.dir, fileName(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cache evict failed: %w", err)
	}
	return nil
}

// Clear removes every batch file in the directory.
// Files written by anything else are left alone.
func (c *DirCache) Clear(ctx context.Context) (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, batchFilePrefix+"*.json"))
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, fmt.Errorf("cache clear failed: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

// Name returns the backend name
func (c *DirCache) Name() string {
	return "dir"
}
