package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// GetJSON читает документ и декодирует его в T.
// Если документа нет, возвращает def и found=false.
func GetJSON[T any](ctx context.Context, docs DocumentStore, key string, def T) (T, bool, error) {
	data, err := docs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return def, false, nil
		}
		return def, false, err
	}

	v := def
	if err := json.Unmarshal(data, &v); err != nil {
		return def, false, fmt.Errorf("failed to decode document %q: %w", key, err)
	}
	return v, true, nil
}

// UpdateJSON выполняет read-modify-write документа в одной транзакции.
// fn получает текущее значение (или def, если документа нет) и изменяет его на месте.
func UpdateJSON[T any](ctx context.Context, docs DocumentStore, key string, def T, fn func(v *T) error) (T, error) {
	var result T

	err := docs.Update(ctx, key, func(current []byte) ([]byte, error) {
		v := def
		if current != nil {
			if err := json.Unmarshal(current, &v); err != nil {
				return nil, fmt.Errorf("failed to decode document %q: %w", key, err)
			}
		}

		if err := fn(&v); err != nil {
			return nil, err
		}

		data, err := MarshalDocument(v)
		if err != nil {
			return nil, err
		}
		result = v
		return data, nil
	})
	if err != nil {
		return result, err
	}

	return result, nil
}

// MarshalDocument сериализует документ с отступами, как он хранится на диске
func MarshalDocument(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}
