package jwtauth

import (
	"context"
	"errors"
	"strings"

	"medical-office/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// Verifier implementa auth.TokenVerifier sobre la misma clave HS256 del Issuer.
// La validez depende solo de firma + expiración (stateless, sin lookup en DB).
type Verifier struct {
	key []byte
}

func NewVerifier(key []byte) (*Verifier, error) {
	if len(key) == 0 {
		return nil, ErrKeyEmpty
	}
	return &Verifier{key: key}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	c, ok := parsed.Claims.(*sessionClaims)
	if !ok || strings.TrimSpace(c.Subject) == "" {
		return auth.Claims{}, ErrTokenInvalid
	}

	return auth.Claims{
		UserID:   c.Subject,
		Role:     c.Role,
		FullName: c.FullName,
	}, nil
}
