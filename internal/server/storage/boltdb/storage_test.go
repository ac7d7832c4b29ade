package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/server/storage/storagetest"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestStorage_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.DocumentStore {
		return setupTestStorage(t)
	})
}

func TestStorage_CloseTwice(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, s.Close())

	empty := &Storage{}
	require.NoError(t, empty.Close())
}
