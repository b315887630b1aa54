package queue

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderRedis  = "redis"
	ProviderMemory = "memory"
)

// Config holds queue connection and worker pool settings.
type Config struct {
	Provider    string `toml:"provider"`
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	Name        string `toml:"name"`
	Capacity    int    `toml:"capacity"`
	Workers     int    `toml:"workers"`
	PollTimeout string `toml:"poll_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider    string
	Addr        string
	Password    string
	DB          string
	Name        string
	Capacity    string
	Workers     string
	PollTimeout string
}

// PollTimeoutDuration returns PollTimeout as a time.Duration.
func (c *Config) PollTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollTimeout)
	return d
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
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Capacity != 0 {
		c.Capacity = overlay.Capacity
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.PollTimeout != "" {
		c.PollTimeout = overlay.PollTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderRedis
	}
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Name == "" {
		c.Name = "dossier:jobs"
	}
	if c.Capacity <= 0 {
		c.Capacity = 1024
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.PollTimeout == "" {
		c.PollTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	for name, dst := range map[string]*string{
		env.Provider:    &c.Provider,
		env.Addr:        &c.Addr,
		env.Password:    &c.Password,
		env.Name:        &c.Name,
		env.PollTimeout: &c.PollTimeout,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	for name, dst := range map[string]*int{
		env.DB:       &c.DB,
		env.Capacity: &c.Capacity,
		env.Workers:  &c.Workers,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderRedis, ProviderMemory:
	default:
		return fmt.Errorf("unknown queue provider %q", c.Provider)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.DB < 0 {
		return fmt.Errorf("db must not be negative")
	}
	d, err := time.ParseDuration(c.PollTimeout)
	if err != nil {
		return fmt.Errorf("invalid poll_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("poll_timeout must be positive")
	}
	return nil
}
