package auth

import "context"

// TokenIssuer firma un token de sesión para una identidad ya verificada.
type TokenIssuer interface {
	Issue(ctx context.Context, claims Claims) (string, error)
}

// TokenVerifier valida firma y expiración de un token y devuelve sus claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
