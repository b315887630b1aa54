package storage_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/pkg/lifecycle"
	"github.com/JaimeStill/dossier/pkg/storage"
)

func newFilesystem(t *testing.T) (storage.System, string) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "uploads")
	cfg := &storage.Config{Root: root}
	require.NoError(t, cfg.Finalize(nil))

	store, err := storage.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, store.Start(lifecycle.New()))
	return store, root
}

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, root := newFilesystem(t)
	key := "evidence/case-1/abc/messages.csv"

	require.NoError(t, store.Upload(ctx, key, strings.NewReader("sender,receiver,payload\n"), "text/csv"))

	_, err := os.Stat(filepath.Join(root, "evidence", "case-1", "abc", "messages.csv"))
	require.NoError(t, err)

	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "sender,receiver,payload\n", string(data))

	require.NoError(t, store.Delete(ctx, key))
	ok, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystemOverwriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store, root := newFilesystem(t)

	require.NoError(t, store.Upload(ctx, "a/b.csv", strings.NewReader("one"), ""))
	require.NoError(t, store.Upload(ctx, "a/b.csv", strings.NewReader("two"), ""))

	entries, err := os.ReadDir(filepath.Join(root, "a"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.csv", entries[0].Name())
}

func TestFilesystemMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newFilesystem(t)

	_, err := store.Download(ctx, "nope.csv")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "nope.csv"), storage.ErrNotFound)

	ok, err := store.Exists(ctx, "nope.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyValidation(t *testing.T) {
	ctx := context.Background()
	store, _ := newFilesystem(t)

	tests := []struct {
		key  string
		want error
	}{
		{"", storage.ErrEmptyKey},
		{"../etc/passwd", storage.ErrInvalidKey},
		{"a/../../b", storage.ErrInvalidKey},
		{"/abs/path", storage.ErrInvalidKey},
		{"a//b", storage.ErrInvalidKey},
		{`a\b`, storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := store.Upload(ctx, tt.key, strings.NewReader("x"), "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults to filesystem", func(t *testing.T) {
		cfg := &storage.Config{}
		require.NoError(t, cfg.Finalize(nil))
		assert.Equal(t, storage.ProviderFilesystem, cfg.Provider)
		assert.Equal(t, ".uploads", cfg.Root)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TEST_STORAGE_PROVIDER", "s3")
		t.Setenv("TEST_STORAGE_BUCKET", "dossier")

		cfg := &storage.Config{}
		require.NoError(t, cfg.Finalize(&storage.Env{
			Provider: "TEST_STORAGE_PROVIDER",
			Bucket:   "TEST_STORAGE_BUCKET",
		}))
		assert.Equal(t, "s3", cfg.Provider)
		assert.Equal(t, "dossier", cfg.Bucket)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			cfg  storage.Config
			want string
		}{
			{"azure without credentials", storage.Config{Provider: "azure"}, "connection_string or account_url"},
			{"s3 without bucket", storage.Config{Provider: "s3"}, "bucket required"},
			{"s3 half credentials", storage.Config{Provider: "s3", Bucket: "b", AccessKey: "k"}, "set together"},
			{"unknown", storage.Config{Provider: "ftp"}, "unknown storage provider"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.ErrorContains(t, tt.cfg.Finalize(nil), tt.want)
			})
		}
	})

	t.Run("merge", func(t *testing.T) {
		cfg := &storage.Config{Provider: "filesystem", Root: "/data"}
		cfg.Merge(&storage.Config{Root: "/mnt"})
		assert.Equal(t, "filesystem", cfg.Provider)
		assert.Equal(t, "/mnt", cfg.Root)
	})
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, storage.MapHTTPStatus(storage.ErrNotFound))
	assert.Equal(t, 400, storage.MapHTTPStatus(storage.ErrInvalidKey))
	assert.Equal(t, 500, storage.MapHTTPStatus(io.ErrUnexpectedEOF))
}
