package storage

import (
	"fmt"
	"os"
)

// Provider names accepted in Config.Provider.
const (
	ProviderFilesystem = "filesystem"
	ProviderAzure      = "azure"
	ProviderS3         = "s3"
)

// Config selects a storage backend and carries the settings each backend needs.
// Only the fields of the selected provider are validated.
type Config struct {
	Provider string `toml:"provider"`

	// filesystem
	Root string `toml:"root"`

	// azure
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`

	// s3
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	Root             string
	ContainerName    string
	ConnectionString string
	AccountURL       string
	Bucket           string
	Region           string
	Endpoint         string
	AccessKey        string
	SecretKey        string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, v := range c.fields(overlay) {
		if v != "" {
			*dst = v
		}
	}
}

func (c *Config) fields(o *Config) map[*string]string {
	return map[*string]string{
		&c.Provider:         o.Provider,
		&c.Root:             o.Root,
		&c.ContainerName:    o.ContainerName,
		&c.ConnectionString: o.ConnectionString,
		&c.AccountURL:       o.AccountURL,
		&c.Bucket:           o.Bucket,
		&c.Region:           o.Region,
		&c.Endpoint:         o.Endpoint,
		&c.AccessKey:        o.AccessKey,
		&c.SecretKey:        o.SecretKey,
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderFilesystem
	}
	if c.Root == "" {
		c.Root = ".uploads"
	}
	if c.ContainerName == "" {
		c.ContainerName = "evidence"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	for dst, name := range map[*string]string{
		&c.Provider:         env.Provider,
		&c.Root:             env.Root,
		&c.ContainerName:    env.ContainerName,
		&c.ConnectionString: env.ConnectionString,
		&c.AccountURL:       env.AccountURL,
		&c.Bucket:           env.Bucket,
		&c.Region:           env.Region,
		&c.Endpoint:         env.Endpoint,
		&c.AccessKey:        env.AccessKey,
		&c.SecretKey:        env.SecretKey,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderFilesystem:
		if c.Root == "" {
			return fmt.Errorf("root required")
		}
	case ProviderAzure:
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required")
		}
	case ProviderS3:
		if c.Bucket == "" {
			return fmt.Errorf("bucket required")
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			return fmt.Errorf("access_key and secret_key must be set together")
		}
	default:
		return fmt.Errorf("unknown storage provider %q", c.Provider)
	}
	return nil
}
