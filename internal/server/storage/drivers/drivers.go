// Package drivers открывает DocumentStore по имени драйвера
// и копирует документы между хранилищами.
package drivers

import (
	"context"
	"fmt"

	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/server/storage/boltdb"
	"github.com/iudanet/folio/internal/server/storage/file"
	"github.com/iudanet/folio/internal/server/storage/sqlite"
)

// Supported driver names
const (
	File   = "file"
	BoltDB = "boltdb"
	SQLite = "sqlite"
)

// Open создает хранилище выбранного драйвера.
// Для file location это каталог, для boltdb и sqlite путь к файлу базы.
func Open(ctx context.Context, driver, location string) (storage.DocumentStore, error) {
	switch driver {
	case File, "":
		return file.New(location)
	case BoltDB:
		return boltdb.New(ctx, location)
	case SQLite:
		return sqlite.New(ctx, location)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", driver)
	}
}

// Copy переносит все документы из src в dst, перезаписывая совпадающие ключи.
// Возвращает количество скопированных документов.
func Copy(ctx context.Context, dst, src storage.DocumentStore) (int, error) {
	keys, err := src.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}

	copied := 0
	for _, key := range keys {
		data, err := src.Get(ctx, key)
		if err != nil {
			return copied, fmt.Errorf("failed to read %q: %w", key, err)
		}

		err = dst.Update(ctx, key, func([]byte) ([]byte, error) {
			return data, nil
		})
		if err != nil {
			return copied, fmt.Errorf("failed to write %q: %w", key, err)
		}
		copied++
	}

	return copied, nil
}
