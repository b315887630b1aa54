package database_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/pkg/database"
)

var testEnv = &database.Env{
	Host:         "TEST_DB_HOST",
	Port:         "TEST_DB_PORT",
	Name:         "TEST_DB_NAME",
	MaxOpenConns: "TEST_DB_MAX_OPEN_CONNS",
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "dossier", cfg.Name)
	assert.Equal(t, "dossier", cfg.User)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, "15m", cfg.ConnMaxLifetime)
	assert.Equal(t, "5s", cfg.ConnTimeout)
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "6543")
	t.Setenv("TEST_DB_NAME", "cases")
	t.Setenv("TEST_DB_MAX_OPEN_CONNS", "50")

	cfg := database.Config{}
	require.NoError(t, cfg.Finalize(testEnv))

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "cases", cfg.Name)
	assert.Equal(t, 50, cfg.MaxOpenConns)
}

func TestFinalizeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"bad port", database.Config{Port: 70000}},
		{"idle exceeds open", database.Config{MaxOpenConns: 2, MaxIdleConns: 5}},
		{"bad lifetime", database.Config{ConnMaxLifetime: "forever"}},
		{"bad timeout", database.Config{ConnTimeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Finalize(nil))
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "dossier"}
	base.Merge(&database.Config{Host: "override", MaxOpenConns: 10})

	assert.Equal(t, "override", base.Host)
	assert.Equal(t, 5432, base.Port)
	assert.Equal(t, "dossier", base.Name)
	assert.Equal(t, 10, base.MaxOpenConns)
}

func TestURL(t *testing.T) {
	cfg := database.Config{User: "dossier", Password: "p@ss word"}
	require.NoError(t, cfg.Finalize(nil))

	u, err := url.Parse(cfg.URL())
	require.NoError(t, err)

	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "localhost:5432", u.Host)
	assert.Equal(t, "/dossier", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
}

func TestDsn(t *testing.T) {
	cfg := database.Config{Password: "secret"}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t,
		"host=localhost port=5432 dbname=dossier user=dossier password=secret sslmode=disable",
		cfg.Dsn(),
	)
}
