// Package config loads the service configuration from config.toml, an
// optional config.<DOSSIER_ENV>.toml overlay, and DOSSIER_* environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/database"
	"github.com/JaimeStill/dossier/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDossierEnv             = "DOSSIER_ENV"
	EnvDossierShutdownTimeout = "DOSSIER_SHUTDOWN_TIMEOUT"
	EnvDossierVersion         = "DOSSIER_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "DOSSIER_DB_HOST",
	Port:            "DOSSIER_DB_PORT",
	Name:            "DOSSIER_DB_NAME",
	User:            "DOSSIER_DB_USER",
	Password:        "DOSSIER_DB_PASSWORD",
	SSLMode:         "DOSSIER_DB_SSL_MODE",
	MaxOpenConns:    "DOSSIER_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DOSSIER_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DOSSIER_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DOSSIER_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "DOSSIER_STORAGE_PROVIDER",
	Root:             "DOSSIER_STORAGE_ROOT",
	ContainerName:    "DOSSIER_STORAGE_CONTAINER_NAME",
	ConnectionString: "DOSSIER_STORAGE_CONNECTION_STRING",
	AccountURL:       "DOSSIER_STORAGE_ACCOUNT_URL",
	Bucket:           "DOSSIER_STORAGE_BUCKET",
	Region:           "DOSSIER_STORAGE_REGION",
	Endpoint:         "DOSSIER_STORAGE_ENDPOINT",
	AccessKey:        "DOSSIER_STORAGE_ACCESS_KEY",
	SecretKey:        "DOSSIER_STORAGE_SECRET_KEY",
}

var authEnv = &auth.Env{
	TokenSecret: "DOSSIER_AUTH_TOKEN_SECRET",
	TokenIssuer: "DOSSIER_AUTH_TOKEN_ISSUER",
	TokenExpiry: "DOSSIER_AUTH_TOKEN_EXPIRY",
	BcryptCost:  "DOSSIER_AUTH_BCRYPT_COST",
}

// Config is the root configuration for the Dossier service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Auth            auth.Config     `toml:"auth"`
	Queue           QueueConfig     `toml:"queue"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the DOSSIER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDossierEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Without a config.toml, defaults and environment
// variables provide everything.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Queue.Merge(&overlay.Queue)
	c.Logging.Merge(&overlay.Logging)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"auth", func() error { return c.Auth.Finalize(authEnv) }},
		{"queue", c.Queue.Finalize},
		{"logging", c.Logging.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDossierShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDossierVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDossierEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
