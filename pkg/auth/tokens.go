// Package auth issues and validates HS256 access tokens, hashes passwords
// with bcrypt, and provides the middleware that authenticates API requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Tokens signs and validates access tokens with a shared secret.
type Tokens struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewTokens(cfg *Config) *Tokens {
	return &Tokens{
		secret: []byte(cfg.TokenSecret),
		issuer: cfg.TokenIssuer,
		expiry: cfg.TokenExpiryDuration(),
		now:    time.Now,
	}
}

// Issue creates a token for the user that expires after the configured expiry.
func (t *Tokens) Issue(userID uuid.UUID, username string) (Token, error) {
	now := t.now()
	exp := now.Add(t.expiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   exp.UTC().Truncate(time.Second),
	}, nil
}

// Validate parses a signed token and returns the identity it carries.
// Every failure is reported as ErrInvalidToken.
func (t *Tokens) Validate(raw string) (Identity, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, errors.New("subject is not a user id"))
	}

	return Identity{UserID: id, Username: claims.Username}, nil
}
