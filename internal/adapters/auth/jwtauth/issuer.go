package jwtauth

import (
	"context"
	"errors"
	"time"

	"medical-office/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrKeyEmpty = errors.New("signing key is empty")
)

// sessionClaims es el formato en el wire del token de sesión.
// El id de la identidad viaja en "sub".
type sessionClaims struct {
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// Issuer firma tokens HS256 con clave simétrica explícita.
// La clave se inyecta al construir; no hay estado global.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(key []byte, ttl time.Duration) (*Issuer, error) {
	if len(key) == 0 {
		return nil, ErrKeyEmpty
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		key: key,
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (i *Issuer) Issue(ctx context.Context, claims auth.Claims) (string, error) {
	now := i.now()

	c := sessionClaims{
		Role:     claims.Role,
		FullName: claims.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
}
