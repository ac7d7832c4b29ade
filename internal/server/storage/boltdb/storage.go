package boltdb

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/folio/internal/server/storage"
)

// bucketDocuments хранит все документы: ключ документа -> JSON
var bucketDocuments = []byte("documents")

// Storage represents BoltDB storage implementation
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB; timeout защищает от вечного ожидания file lock другого процесса
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketDocuments); err != nil {
			return fmt.Errorf("failed to create documents bucket: %w", err)
		}
		return nil
	})
}

// Get returns raw document by key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		if bucket == nil {
			return fmt.Errorf("documents bucket not found")
		}

		value := bucket.Get([]byte(key))
		if value == nil {
			return storage.ErrDocumentNotFound
		}

		// Данные BoltDB валидны только внутри транзакции
		data = bytes.Clone(value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Update atomically replaces document with the result of fn
// Транзакция записи BoltDB эксклюзивна, поэтому read-modify-write не теряет обновлений
func (s *Storage) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		if bucket == nil {
			return fmt.Errorf("documents bucket not found")
		}

		var current []byte
		if value := bucket.Get([]byte(key)); value != nil {
			current = bytes.Clone(value)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if next == nil {
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to delete document: %w", err)
			}
			return nil
		}

		if err := bucket.Put([]byte(key), next); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		return nil
	})
}

// Keys returns all stored keys in ascending order
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		if bucket == nil {
			return fmt.Errorf("documents bucket not found")
		}

		// BoltDB хранит ключи в порядке байтов, отдельная сортировка не нужна
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return keys, nil
}
