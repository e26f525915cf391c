package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileCollection keeps records as a pretty-printed JSON array in one file.
// All access goes through a per-collection lock, so concurrent requests in
// one process never lose updates. Writes replace the file via rename.
type FileCollection[T any] struct {
	path string
	mu   sync.RWMutex
}

// NewFileCollection returns a collection backed by path. The file is created
// on first write.
func NewFileCollection[T any](path string) *FileCollection[T] {
	return &FileCollection[T]{path: path}
}

// Path returns the backing file path.
func (c *FileCollection[T]) Path() string {
	return c.path
}

// Load reads the file. A missing or empty file yields no records.
func (c *FileCollection[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.read()
}

// Update performs a locked read-modify-write.
func (c *FileCollection[T]) Update(ctx context.Context, fn MutateFunc[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.write(next)
}

// EnsureExists writes an empty array if the file is missing.
func (c *FileCollection[T]) EnsureExists() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/file: stat %s: %w", c.path, err)
	}
	return c.write(nil)
}

func (c *FileCollection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("storage/file: read %s: %w", c.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("storage/file: decode %s: %w", c.path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *FileCollection[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("storage/file: encode %s: %w", c.path, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage/file: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage/file: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage/file: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage/file: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage/file: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage/file: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("storage/file: rename to %s: %w", c.path, err)
	}
	return nil
}
