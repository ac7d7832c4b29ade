package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/folio/internal/client/iocli"
	"github.com/iudanet/folio/internal/server/storage/boltdb"
	"github.com/iudanet/folio/internal/server/storage/file"
	"github.com/iudanet/folio/pkg/api"
)

// newMockIO возвращает IOMock, который отдает пароли по очереди и копит вывод
func newMockIO(passwords ...string) (*iocli.IOMock, *strings.Builder) {
	out := &strings.Builder{}
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) { fmt.Fprintln(out, a...) },
		PrintfFunc:  func(format string, a ...any) { fmt.Fprintf(out, format, a...) },
		ReadPasswordFunc: func(string) (string, error) {
			if len(passwords) == 0 {
				return "", errors.New("no input")
			}
			pw := passwords[0]
			passwords = passwords[1:]
			return pw, nil
		},
	}, out
}

type fakeServer struct {
	healthErr error
	password  string
	token     string
	revoked   []string
}

func (f *fakeServer) Health(context.Context) (*api.HealthResponse, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &api.HealthResponse{Status: "ok", Version: "1.0.0"}, nil
}

func (f *fakeServer) Login(_ context.Context, password string) (string, error) {
	if password != f.password {
		return "", errors.New("server error (401): invalid password")
	}
	return f.token, nil
}

func (f *fakeServer) Logout(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeServer) AuthStatus(_ context.Context, token string) (bool, error) {
	return token == f.token, nil
}

func TestRun_UnknownCommand(t *testing.T) {
	mockIO, _ := newMockIO()
	err := New(mockIO, &fakeServer{}).Run(context.Background(), "frobnicate", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRun_Help(t *testing.T) {
	mockIO, out := newMockIO()
	require.NoError(t, New(mockIO, &fakeServer{}).Run(context.Background(), "help", nil))
	assert.Contains(t, out.String(), "hash-password")
	assert.Contains(t, out.String(), "migrate")
}

func TestHashPassword(t *testing.T) {
	t.Run("prints verifiable hash", func(t *testing.T) {
		mockIO, out := newMockIO("correct-horse", "correct-horse")
		require.NoError(t, New(mockIO, nil).Run(context.Background(), "hash-password", nil))

		hash := strings.TrimSpace(out.String())
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")))
		assert.Len(t, mockIO.ReadPasswordCalls(), 2)
	})

	t.Run("mismatch", func(t *testing.T) {
		mockIO, out := newMockIO("correct-horse", "battery-staple")
		err := New(mockIO, nil).Run(context.Background(), "hash-password", nil)
		assert.ErrorIs(t, err, errPasswordsDiffer)
		assert.Empty(t, out.String())
	})

	t.Run("too short", func(t *testing.T) {
		mockIO, _ := newMockIO("short")
		err := New(mockIO, nil).Run(context.Background(), "hash-password", nil)
		require.Error(t, err)
		assert.Len(t, mockIO.ReadPasswordCalls(), 1)
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	srcDir := t.TempDir()

	src, err := file.New(srcDir)
	require.NoError(t, err)
	for key, doc := range map[string]string{
		"redes":          `[{"id":"a","order":0}]`,
		"comments/hello": `[]`,
	} {
		require.NoError(t, src.Update(ctx, key, func([]byte) ([]byte, error) {
			return []byte(doc), nil
		}))
	}
	require.NoError(t, src.Close())

	dstPath := filepath.Join(t.TempDir(), "folio.db")
	mockIO, out := newMockIO()
	err = New(mockIO, nil).Run(ctx, "migrate", []string{
		"-from", "file", "-from-path", srcDir,
		"-to", "boltdb", "-to-path", dstPath,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Copied 2 documents")

	dst, err := boltdb.New(ctx, dstPath)
	require.NoError(t, err)
	defer func() { _ = dst.Close() }()

	got, err := dst.Get(ctx, "redes")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","order":0}]`, string(got))
}

func TestParseMigrateFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "valid", args: []string{"-to", "sqlite", "-to-path", "folio.db"}},
		{name: "missing destination", args: []string{"-from", "file"}, wantErr: true},
		{name: "same store", args: []string{"-to", "file", "-to-path", "content"}, wantErr: true},
		{name: "unknown flag", args: []string{"-bogus"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMigrateFlags(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	srv := &fakeServer{password: "secret-pass", token: "tok"}

	mockIO, out := newMockIO("secret-pass")
	require.NoError(t, New(mockIO, srv).Run(context.Background(), "login", nil))
	assert.Contains(t, out.String(), "export FOLIO_TOKEN=tok")

	mockIO, _ = newMockIO("wrong")
	assert.Error(t, New(mockIO, srv).Run(context.Background(), "login", nil))
}

func TestLogout(t *testing.T) {
	srv := &fakeServer{}
	mockIO, _ := newMockIO()
	c := New(mockIO, srv)

	require.NoError(t, c.Run(context.Background(), "logout", []string{"-token", "tok-1"}))
	assert.Equal(t, []string{"tok-1"}, srv.revoked)

	t.Setenv(TokenEnv, "")
	assert.Error(t, c.Run(context.Background(), "logout", nil))
}

func TestStatus(t *testing.T) {
	srv := &fakeServer{token: "good"}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no token", args: nil, want: "Session: no token given"},
		{name: "valid token", args: []string{"-token", "good"}, want: "Session: authenticated"},
		{name: "stale token", args: []string{"-token", "old"}, want: "Session: invalid or expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(TokenEnv, "")
			mockIO, out := newMockIO()
			require.NoError(t, New(mockIO, srv).Run(context.Background(), "status", tt.args))
			assert.Contains(t, out.String(), "Version: 1.0.0")
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestStatus_TokenFromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "good")

	mockIO, out := newMockIO()
	require.NoError(t, New(mockIO, &fakeServer{token: "good"}).Run(context.Background(), "status", nil))
	assert.Contains(t, out.String(), "Session: authenticated")
}

func TestStatus_ServerDown(t *testing.T) {
	mockIO, _ := newMockIO()
	srv := &fakeServer{healthErr: errors.New("connection refused")}
	assert.Error(t, New(mockIO, srv).Run(context.Background(), "status", nil))
}
