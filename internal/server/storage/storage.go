package storage

import (
	"context"
	"fmt"
	"regexp"
)

// UpdateFunc получает текущее содержимое документа (nil, если документа нет)
// и возвращает новое содержимое. Возврат ошибки отменяет запись,
// возврат nil вместо данных удаляет документ.
type UpdateFunc func(current []byte) ([]byte, error)

// DocumentStore defines interface for JSON document persistence
type DocumentStore interface {
	// Get returns raw document by key
	// Returns ErrDocumentNotFound if document doesn't exist
	Get(ctx context.Context, key string) ([]byte, error)

	// Update atomically replaces document with the result of fn
	// Concurrent updates of the same key are serialized
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Keys returns all stored keys in ascending order
	Keys(ctx context.Context) ([]string, error)

	// Close releases underlying resources
	Close() error
}

// keyPattern допускает ключи вида "tokens", "hero-slides", "comments/my-post".
// Первый сегмент в нижнем регистре, остальные могут содержать заглавные буквы (slug поста).
var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*(/[a-zA-Z0-9_-]+)*$`)

// ValidateKey проверяет формат ключа документа
// Защищает файловый драйвер от path traversal
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
