package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Passwords hashes and verifies passwords with bcrypt.
type Passwords struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

func NewPasswords(cfg *Config) *Passwords {
	return &Passwords{cost: cfg.BcryptCost}
}

// Hash returns the bcrypt hash of password.
func (p *Passwords) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify returns ErrInvalidCredentials when password does not match hash.
func (p *Passwords) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("verify password: %w", err)
}

// Reject spends one comparison against a fixed hash at the configured cost
// and returns ErrInvalidCredentials. Call it for unknown accounts so they
// take as long to refuse as a wrong password.
func (p *Passwords) Reject(password string) error {
	p.dummyOnce.Do(func() {
		p.dummy, _ = bcrypt.GenerateFromPassword([]byte("dossier-unknown-account"), p.cost)
	})
	bcrypt.CompareHashAndPassword(p.dummy, []byte(password))
	return ErrInvalidCredentials
}
