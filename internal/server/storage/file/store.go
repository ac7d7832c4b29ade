// Package file реализует DocumentStore поверх каталога с JSON-файлами.
// Ключ "comments/my-post" хранится в файле <dir>/comments/my-post.json.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iudanet/folio/internal/fsutil"
	"github.com/iudanet/folio/internal/server/storage"
)

const ext = ".json"

// Storage represents file-per-document storage implementation
type Storage struct {
	locks *fsutil.KeyedMutex
	dir   string
}

// New creates storage rooted at dir, creating the directory if needed
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Storage{
		dir:   dir,
		locks: fsutil.NewKeyedMutex(),
	}, nil
}

func (s *Storage) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+ext)
}

// Get returns raw document by key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return data, nil
}

// Update atomically replaces document with the result of fn
func (s *Storage) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	path := s.path(key)

	current, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read document: %w", err)
		}
		current = nil
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	// Не начинаем запись, если запрос уже отменен
	if err := ctx.Err(); err != nil {
		return err
	}

	if next == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		return nil
	}

	if err := fsutil.WriteFileAtomic(path, next, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

// Keys returns all stored keys in ascending order
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), ext)
		if storage.ValidateKey(key) == nil {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for file storage
func (s *Storage) Close() error {
	return nil
}
