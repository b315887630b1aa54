package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSecret is the development signing secret used when none is configured.
const DefaultSecret = "secret"

// Config holds token signing and password hashing parameters.
type Config struct {
	TokenSecret string `toml:"token_secret"`
	TokenIssuer string `toml:"token_issuer"`
	TokenExpiry string `toml:"token_expiry"`
	BcryptCost  int    `toml:"bcrypt_cost"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	TokenSecret string
	TokenIssuer string
	TokenExpiry string
	BcryptCost  string
}

// TokenExpiryDuration returns TokenExpiry as a time.Duration.
func (c *Config) TokenExpiryDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenExpiry)
	return d
}

// UsesDefaultSecret reports whether tokens are signed with DefaultSecret.
func (c *Config) UsesDefaultSecret() bool {
	return c.TokenSecret == DefaultSecret
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
	if overlay.TokenSecret != "" {
		c.TokenSecret = overlay.TokenSecret
	}
	if overlay.TokenIssuer != "" {
		c.TokenIssuer = overlay.TokenIssuer
	}
	if overlay.TokenExpiry != "" {
		c.TokenExpiry = overlay.TokenExpiry
	}
	if overlay.BcryptCost != 0 {
		c.BcryptCost = overlay.BcryptCost
	}
}

func (c *Config) loadDefaults() {
	if c.TokenSecret == "" {
		c.TokenSecret = DefaultSecret
	}
	if c.TokenIssuer == "" {
		c.TokenIssuer = "dossier"
	}
	if c.TokenExpiry == "" {
		c.TokenExpiry = "30m"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.TokenSecret != "" {
		if v := os.Getenv(env.TokenSecret); v != "" {
			c.TokenSecret = v
		}
	}
	if env.TokenIssuer != "" {
		if v := os.Getenv(env.TokenIssuer); v != "" {
			c.TokenIssuer = v
		}
	}
	if env.TokenExpiry != "" {
		if v := os.Getenv(env.TokenExpiry); v != "" {
			c.TokenExpiry = v
		}
	}
	if env.BcryptCost != "" {
		if v := os.Getenv(env.BcryptCost); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.BcryptCost = n
			}
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return fmt.Errorf("invalid token_expiry: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("token_expiry must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
