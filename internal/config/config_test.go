package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/internal/config"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.EqualValues(t, 50*1024*1024, cfg.API.MaxUploadSizeBytes())
	assert.Equal(t, "filesystem", cfg.Storage.Provider)
	assert.Equal(t, "dossier:jobs", cfg.Queue.Name)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.False(t, cfg.Queue.WorkersInline)
	assert.True(t, cfg.Auth.UsesDefaultSecret())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenExpiryDuration())
	assert.Equal(t, slog.LevelInfo, cfg.Logging.SlogLevel())
}

func TestLoadOverlayAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, dir, "config.toml", `
version = "1.2.3"

[server]
port = 9000

[api]
max_upload_size = "10MB"

[queue]
provider = "memory"
workers = 2
`)
	writeFile(t, dir, "config.test.toml", `
[queue]
workers_inline = true

[storage]
root = "/var/dossier"
`)

	t.Setenv("DOSSIER_ENV", "test")
	t.Setenv("DOSSIER_SERVER_PORT", "9100")
	t.Setenv("DOSSIER_LOG_LEVEL", "DEBUG")
	t.Setenv("DOSSIER_AUTH_TOKEN_SECRET", "s3cr3t")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.EqualValues(t, 10*1024*1024, cfg.API.MaxUploadSizeBytes())
	assert.Equal(t, "memory", cfg.Queue.Provider)
	assert.Equal(t, 2, cfg.Queue.Workers)
	assert.True(t, cfg.Queue.WorkersInline)
	assert.Equal(t, "/var/dossier", cfg.Storage.Root)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
	assert.Equal(t, "s3cr3t", cfg.Auth.TokenSecret)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", "server = [", "parse config"},
		{"bad duration", `shutdown_timeout = "soon"`, "shutdown_timeout"},
		{"bad upload size", "[api]\nmax_upload_size = \"lots\"", "max_upload_size"},
		{"bad log format", "[logging]\nformat = \"xml\"", "logging"},
		{"bad storage provider", "[storage]\nprovider = \"ftp\"", "storage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			writeFile(t, dir, "config.toml", tt.body)

			_, err := config.Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
