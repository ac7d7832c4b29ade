// Package storagetest содержит общий набор проверок для драйверов DocumentStore
package storagetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/folio/internal/server/storage"
)

// Run прогоняет контрактные тесты над хранилищем, созданным newStore
func Run(t *testing.T, newStore func(t *testing.T) storage.DocumentStore) {
	t.Helper()

	t.Run("get missing document", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
	})

	t.Run("update absent key sees nil", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var seen []byte
		called := false
		err := s.Update(ctx, "hero-slides", func(current []byte) ([]byte, error) {
			called = true
			seen = current
			return []byte(`[]`), nil
		})
		require.NoError(t, err)
		assert.True(t, called)
		assert.Nil(t, seen)

		data, err := s.Get(ctx, "hero-slides")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("error in update leaves state untouched", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Update(ctx, "author", func([]byte) ([]byte, error) {
			return []byte(`{"name":"before"}`), nil
		}))

		boom := errors.New("boom")
		err := s.Update(ctx, "author", func([]byte) ([]byte, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		data, err := s.Get(ctx, "author")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"before"}`, string(data))
	})

	t.Run("nil result deletes document", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Update(ctx, "comments/post-1", func([]byte) ([]byte, error) {
			return []byte(`[]`), nil
		}))
		require.NoError(t, s.Update(ctx, "comments/post-1", func([]byte) ([]byte, error) {
			return nil, nil
		}))

		_, err := s.Get(ctx, "comments/post-1")
		assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
	})

	t.Run("invalid keys are rejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, key := range []string{"", "../etc/passwd", "comments/../tokens", "/abs", "Upper"} {
			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, storage.ErrInvalidKey, key)

			err = s.Update(ctx, key, func([]byte) ([]byte, error) { return []byte(`{}`), nil })
			assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
		}
	})

	t.Run("keys are sorted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, key := range []string{"tokens", "comments/b", "author", "comments/a"} {
			require.NoError(t, s.Update(ctx, key, func([]byte) ([]byte, error) {
				return []byte(`{}`), nil
			}))
		}

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"author", "comments/a", "comments/b", "tokens"}, keys)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const writers = 20
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := s.Update(ctx, "redes", func(current []byte) ([]byte, error) {
					var items []string
					if current != nil {
						if err := json.Unmarshal(current, &items); err != nil {
							return nil, err
						}
					}
					items = append(items, fmt.Sprintf("item-%d", i))
					return json.Marshal(items)
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		data, err := s.Get(ctx, "redes")
		require.NoError(t, err)

		var items []string
		require.NoError(t, json.Unmarshal(data, &items))
		assert.Len(t, items, writers)
	})
}
