package drivers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name     string
		driver   string
		location string
		wantErr  bool
	}{
		{name: "file", driver: File, location: filepath.Join(dir, "content")},
		{name: "default is file", driver: "", location: filepath.Join(dir, "content2")},
		{name: "boltdb", driver: BoltDB, location: filepath.Join(dir, "folio.bolt")},
		{name: "sqlite", driver: SQLite, location: filepath.Join(dir, "folio.db")},
		{name: "unknown", driver: "mongo", location: dir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.driver, tt.location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src, err := Open(ctx, File, filepath.Join(dir, "content"))
	require.NoError(t, err)
	defer src.Close()

	dst, err := Open(ctx, BoltDB, filepath.Join(dir, "folio.bolt"))
	require.NoError(t, err)
	defer dst.Close()

	docs := map[string]string{
		"tokens":          `["a"]`,
		"hero-slides":     `[]`,
		"comments/post-1": `[{"id":"1"}]`,
	}
	for key, value := range docs {
		value := value
		require.NoError(t, src.Update(ctx, key, func([]byte) ([]byte, error) {
			return []byte(value), nil
		}))
	}

	n, err := Copy(ctx, dst, src)
	require.NoError(t, err)
	assert.Equal(t, len(docs), n)

	for key, value := range docs {
		data, err := dst.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, value, string(data))
	}
}
